package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/dto"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

const ServiceName = "Roblox Studio Mobile API"

type StatusHandler struct {
	version string
	now     func() time.Time
}

func NewStatusHandler(version string) *StatusHandler {
	return &StatusHandler{version: version, now: time.Now}
}

func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status:  "online",
		Service: ServiceName,
		Version: h.version,
		Endpoints: dto.EndpointsDescriptor{
			Publish: "/api/v1/publish",
			Places:  "/api/v1/places",
			Health:  "/health",
		},
	})
}

// Health never touches upstream, credentials or the request body.
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewHealthResponse(h.now()))
}

func (h *StatusHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NotFoundResponse{
		Success: false,
		Error:   service.ErrEndpointNotFound.Message,
		AvailableEndpoints: dto.AvailableEndpoints{
			Publish:    "POST /api/v1/publish",
			ListPlaces: "GET /api/v1/places",
			Health:     "GET /health",
		},
	})
}
