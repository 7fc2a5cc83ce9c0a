package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/handler"
)

var _ = Describe("StatusHandler", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		h := handler.NewStatusHandler("1.2.3")
		router.GET("/", h.Root)
		router.GET("/health", h.Health)
		router.NoRoute(h.NotFound)
	})

	serve := func(method, path string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(`not json`))
		req.Header.Set("x-api-key", "short")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return w, resp
	}

	It("describes the service", func() {
		w, resp := serve(http.MethodGet, "/")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["status"]).To(Equal("online"))
		Expect(resp["service"]).To(Equal(handler.ServiceName))
		Expect(resp["version"]).To(Equal("1.2.3"))
		Expect(resp["endpoints"]).To(HaveKeyWithValue("publish", "/api/v1/publish"))
	})

	It("reports health regardless of credential or body", func() {
		w, resp := serve(http.MethodGet, "/health")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["status"]).To(Equal("healthy"))
		ts, err := time.Parse(time.RFC3339, resp["timestamp"].(string))
		Expect(err).NotTo(HaveOccurred())
		Expect(ts).To(BeTemporally("~", time.Now(), time.Minute))
	})

	It("lists available endpoints for unknown routes", func() {
		w, resp := serve(http.MethodDelete, "/api/v2/anything")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(resp).To(Equal(map[string]any{
			"success": false,
			"error":   "Endpoint not found",
			"availableEndpoints": map[string]any{
				"publish":    "POST /api/v1/publish",
				"listPlaces": "GET /api/v1/places",
				"health":     "GET /health",
			},
		}))
	})
})
