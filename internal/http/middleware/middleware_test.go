package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/id"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/logger"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/middleware"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/ratelimit"
)

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

type stubLimiter struct {
	res ratelimit.Result
	err error
}

func (s *stubLimiter) Allow(context.Context, string) (ratelimit.Result, error) {
	return s.res, s.err
}

var _ = Describe("Recovery", func() {
	It("renders a 500 envelope for panics", func() {
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		resp := decode(w)
		Expect(resp["success"]).To(BeFalse())
		Expect(resp["error"]).To(Equal("Server error"))
		Expect(resp["details"]).To(Equal("kaboom"))
	})
})

var _ = Describe("RequestID", func() {
	It("sets the header and seeds log fields", func() {
		var fields logger.LogFields
		router := gin.New()
		router.Use(middleware.RequestID())
		router.GET("/", func(c *gin.Context) {
			fields = logger.GetLogFields(c.Request.Context())
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(fields.RequestID).NotTo(BeNil())
		Expect(fields.Component).To(Equal("relay.http"))
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal(id.String(*fields.RequestID)))
	})
})

var _ = Describe("CORS", func() {
	It("allows any origin", func() {
		router := gin.New()
		router.Use(middleware.CORS())
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://studio.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})
})

var _ = Describe("BodyLimit", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.New()
		router.Use(middleware.BodyLimit(16))
		router.POST("/echo", func(c *gin.Context) {
			body, err := io.ReadAll(c.Request.Body)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.String(http.StatusOK, string(body))
		})
	})

	It("rejects a declared oversized body", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 32))))

		Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
		Expect(decode(w)["error"]).To(Equal("Request body too large"))
	})

	It("caps undeclared bodies while reading", func() {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 32)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
	})

	It("passes small bodies", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("ok")))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("ok"))
	})
})

var _ = Describe("RateLimit", func() {
	var (
		limiter *stubLimiter
		router  *gin.Engine
		reached bool
	)

	BeforeEach(func() {
		reached = false
		limiter = &stubLimiter{}
		router = gin.New()
		router.Use(middleware.RateLimit(limiter))
		router.GET("/api/v1/places", func(c *gin.Context) {
			reached = true
			c.Status(http.StatusOK)
		})
	})

	It("sets headers on allowed requests", func() {
		limiter.res = ratelimit.Result{Allowed: true, Limit: 50, Remaining: 49, ResetAt: time.Unix(1800000000, 0)}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/places", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("50"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("49"))
		Expect(w.Header().Get("X-RateLimit-Reset")).To(Equal("1800000000"))
	})

	It("rejects over the limit with 429", func() {
		limiter.res = ratelimit.Result{Allowed: false, Limit: 50, ResetAt: time.Now().Add(90 * time.Second)}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/places", nil))

		Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		Expect(reached).To(BeFalse())
		Expect(decode(w)["error"]).To(Equal("Too many requests, please try again later."))
		Expect(w.Header().Get("Retry-After")).To(Or(Equal("90"), Equal("89")))
	})

	It("fails open when the backend errors", func() {
		limiter.err = errors.New("redis: connection refused")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/places", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
	})
})

var _ = Describe("RequireAPIKey", func() {
	var (
		router *gin.Engine
		seen   string
	)

	BeforeEach(func() {
		seen = ""
		router = gin.New()
		router.Use(middleware.RequireAPIKey(20))
		router.GET("/", func(c *gin.Context) {
			seen = middleware.APIKey(c)
			c.Status(http.StatusOK)
		})
	})

	DescribeTable("rejects bad keys with 401",
		func(key string) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if key != "" {
				req.Header.Set("x-api-key", key)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decode(w)).To(Equal(map[string]any{"success": false, "error": "Invalid or missing API Key"}))
			Expect(seen).To(BeEmpty())
		},
		Entry("missing", ""),
		Entry("short", "too-short"),
		Entry("19 characters", strings.Repeat("k", 19)),
	)

	It("passes the key through", func() {
		key := strings.Repeat("k", 20)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Api-Key", key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(seen).To(Equal(key))
	})
})

var _ = Describe("Logger", func() {
	var (
		router *gin.Engine
		buf    *bytes.Buffer
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		prev := slog.Default()
		slog.SetDefault(slog.New(logger.NewTraceHandler(slog.NewJSONHandler(buf, nil))))
		DeferCleanup(func() { slog.SetDefault(prev) })

		router = gin.New()
		router.Use(middleware.RequestID(), middleware.Logger())
		v1 := router.Group("/api/v1", middleware.RequireAPIKey(20))
		v1.GET("/places/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	})

	lastLine := func() map[string]any {
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		var entry map[string]any
		Expect(json.Unmarshal(lines[len(lines)-1], &entry)).To(Succeed())
		return entry
	}

	It("logs the matched route, request id and masked key for /api", func() {
		key := "abcd-secret-key-0123456789"
		req := httptest.NewRequest(http.MethodGet, "/api/v1/places/42", nil)
		req.Header.Set("x-api-key", key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		entry := lastLine()
		Expect(entry["msg"]).To(Equal("request"))
		Expect(entry["route"]).To(Equal("/api/v1/places/:id"))
		Expect(entry["path"]).To(Equal("/api/v1/places/42"))
		Expect(entry["api_key"]).To(Equal("abcd****"))
		Expect(entry["request_id"]).To(BeNumerically(">", 0))
		Expect(buf.String()).NotTo(ContainSubstring(key))
	})

	It("masks rejected keys too", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/places/42", nil)
		req.Header.Set("x-api-key", "short-key")
		router.ServeHTTP(httptest.NewRecorder(), req)

		entry := lastLine()
		Expect(entry["status"]).To(BeNumerically("==", http.StatusUnauthorized))
		Expect(entry["api_key"]).To(Equal("shor****"))
		Expect(buf.String()).NotTo(ContainSubstring("short-key"))
	})

	It("omits the key outside /api and marks unmatched routes", func() {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("x-api-key", "abcd-secret-key-0123456789")
		router.ServeHTTP(httptest.NewRecorder(), req)
		Expect(lastLine()).NotTo(HaveKey("api_key"))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		Expect(lastLine()["route"]).To(Equal("unmatched"))
	})
})

var _ = Describe("UnderPath", func() {
	It("runs the handler only at or below the prefix", func() {
		hits := 0
		count := func(c *gin.Context) { hits++; c.Next() }

		router := gin.New()
		router.Use(middleware.UnderPath("/api", count))
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		router.GET("/api", ok)
		router.GET("/api/v1/x", ok)
		router.GET("/apix", ok)
		router.GET("/health", ok)

		for _, p := range []string{"/api", "/api/v1/x", "/apix", "/health"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
			Expect(w.Code).To(Equal(http.StatusOK))
		}
		Expect(hits).To(Equal(2))
	})
})
