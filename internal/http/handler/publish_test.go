package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/handler"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/middleware"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/opencloud"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

const testAPIKey = "test-api-key-0123456789"

var _ = Describe("PublishHandler", func() {
	var (
		router *gin.Engine
		svc    *mockPublishService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockPublishService{}
		h := handler.NewPublishHandler(svc)
		router.POST("/api/v1/publish", middleware.RequireAPIKey(20), middleware.BodyLimit(1024), h.Publish)
		router.GET("/api/v1/places", middleware.RequireAPIKey(20), h.Places)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/publish", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", testAPIKey)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	Describe("Publish", func() {
		It("returns the publish envelope on success", func() {
			svc.publishFn = func(_ context.Context, p service.PublishParams) (*service.PublishResult, error) {
				return &service.PublishResult{
					Action:         service.ActionPublish,
					PlaceID:        p.PlaceID,
					PlaceURL:       "https://www.roblox.com/games/" + p.PlaceID.String(),
					VersionNumber:  int64(7),
					ProcessingTime: 842 * time.Millisecond,
					Message:        "Place updated successfully!",
				}, nil
			}

			w := post(`{"action":"publish","placeId":123456,"workspaceData":"{\"Objects\":[]}","userId":42,"userName":"builder"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(Equal(map[string]any{
				"success":        true,
				"action":         "publish",
				"placeId":        float64(123456),
				"placeUrl":       "https://www.roblox.com/games/123456",
				"versionNumber":  float64(7),
				"processingTime": "842ms",
				"message":        "Place updated successfully!",
			}))

			Expect(svc.publishCalls).To(HaveLen(1))
			params := svc.publishCalls[0]
			Expect(params.APIKey).To(Equal(testAPIKey))
			Expect(params.PlaceID).To(Equal(opencloud.ID("123456")))
			Expect(params.UserID).To(Equal(opencloud.ID("42")))
			Expect(params.UserName).To(Equal("builder"))
			Expect(string(params.WorkspaceData)).To(Equal(`"{\"Objects\":[]}"`))
		})

		It("returns the create envelope with both ids", func() {
			svc.publishFn = func(_ context.Context, _ service.PublishParams) (*service.PublishResult, error) {
				return &service.PublishResult{
					Action:     service.ActionCreate,
					UniverseID: "9001",
					PlaceID:    "9002",
					PlaceURL:   "https://www.roblox.com/games/9002",
					EditURL:    "https://create.roblox.com/dashboard/creations/experiences/9001/overview",
					Message:    "New place created successfully!",
				}, nil
			}

			w := post(`{"action":"create","workspaceData":{"Objects":[]}}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["universeId"]).To(Equal(float64(9001)))
			Expect(resp["placeId"]).To(Equal(float64(9002)))
			Expect(resp["editUrl"]).To(Equal("https://create.roblox.com/dashboard/creations/experiences/9001/overview"))
			Expect(resp).NotTo(HaveKey("versionNumber"))
			Expect(resp["processingTime"]).To(Equal("0ms"))
		})

		It("keeps string place ids as strings", func() {
			svc.publishFn = func(_ context.Context, p service.PublishParams) (*service.PublishResult, error) {
				return &service.PublishResult{Action: service.ActionPublish, PlaceID: p.PlaceID, VersionNumber: "latest"}, nil
			}

			w := post(`{"action":"publish","placeId":"abc","workspaceData":"{}"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["placeId"]).To(Equal("abc"))
			Expect(decode(w)["versionNumber"]).To(Equal("latest"))
		})

		It("rejects a missing credential before reading the body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/publish", bytes.NewBufferString(`{`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decode(w)["error"]).To(Equal("Invalid or missing API Key"))
			Expect(svc.publishCalls).To(BeEmpty())
		})

		It("returns 400 on a malformed body", func() {
			w := post(`{`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)["error"]).To(Equal("Invalid request body"))
			Expect(svc.publishCalls).To(BeEmpty())
		})

		It("treats an empty body as an empty request", func() {
			svc.publishFn = func(_ context.Context, p service.PublishParams) (*service.PublishResult, error) {
				return nil, p.Validate()
			}

			w := post(``)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)["error"]).To(Equal(`Invalid action. Must be "publish" or "create"`))
		})

		It("returns 413 when the body exceeds the limit", func() {
			body := fmt.Sprintf(`{"action":"publish","placeId":1,"workspaceData":%q}`, strings.Repeat("x", 2048))
			w := post(body)

			Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
			Expect(decode(w)["error"]).To(Equal("Request body too large"))
		})

		DescribeTable("renders classified failures",
			func(err error, status int, message, details string) {
				svc.publishFn = func(_ context.Context, _ service.PublishParams) (*service.PublishResult, error) {
					return nil, err
				}

				w := post(`{"action":"publish","placeId":1,"workspaceData":"{}"}`)

				Expect(w.Code).To(Equal(status))
				resp := decode(w)
				Expect(resp["success"]).To(BeFalse())
				Expect(resp["error"]).To(Equal(message))
				if details == "" {
					Expect(resp).NotTo(HaveKey("details"))
				} else {
					Expect(resp["details"]).To(Equal(details))
				}
			},
			Entry("validation", service.ErrPlaceIDRequired,
				http.StatusBadRequest, "Place ID required for publish action", ""),
			Entry("upstream 403", fmt.Errorf("publishing place version: %w", &opencloud.APIError{StatusCode: 403, Message: "Forbidden"}),
				http.StatusUnauthorized, "Invalid API Key or insufficient permissions",
				"Make sure your API Key has the required scopes: universe.place:write"),
			Entry("upstream 404", &opencloud.APIError{StatusCode: 404},
				http.StatusNotFound, "Place not found",
				"The Place ID provided does not exist or you do not have access to it"),
			Entry("upstream 429", &opencloud.APIError{StatusCode: 429},
				http.StatusTooManyRequests, "Rate limit exceeded",
				"Too many requests. Please wait a moment and try again"),
			Entry("upstream 500", &opencloud.APIError{StatusCode: 500, Message: "Internal"},
				http.StatusInternalServerError, "Roblox API error", "Internal"),
			Entry("transport", errors.New("connection reset by peer"),
				http.StatusInternalServerError, "Server error", "connection reset by peer"),
		)
	})

	Describe("Places", func() {
		get := func(key string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/places", nil)
			if key != "" {
				req.Header.Set("x-api-key", key)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("lists places", func() {
			var gotKey string
			svc.listPlacesFn = func(_ context.Context, apiKey string) ([]service.Place, error) {
				gotKey = apiKey
				return []service.Place{
					{UniverseID: "1", PlaceID: "11", Name: "Obby", Description: "jump", URL: "https://www.roblox.com/games/11"},
				}, nil
			}

			w := get(testAPIKey)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotKey).To(Equal(testAPIKey))
			Expect(decode(w)).To(Equal(map[string]any{
				"success": true,
				"places": []any{map[string]any{
					"universeId":  float64(1),
					"placeId":     float64(11),
					"name":        "Obby",
					"description": "jump",
					"url":         "https://www.roblox.com/games/11",
				}},
			}))
		})

		It("returns an empty array, not null", func() {
			w := get(testAPIKey)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"places":[]`))
		})

		It("requires a credential", func() {
			w := get("")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 500 with the raw message on failure", func() {
			svc.listPlacesFn = func(_ context.Context, _ string) ([]service.Place, error) {
				return nil, fmt.Errorf("listing universes: %w", &opencloud.APIError{StatusCode: 403})
			}

			w := get(testAPIKey)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(decode(w)).To(Equal(map[string]any{
				"success": false,
				"error":   "listing universes: opencloud: HTTP 403",
			}))
		})
	})
})
