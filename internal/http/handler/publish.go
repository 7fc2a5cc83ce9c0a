package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/dto"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/middleware"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

type PublishHandler struct {
	publishService service.PublishService
}

func NewPublishHandler(publishService service.PublishService) *PublishHandler {
	return &PublishHandler{publishService: publishService}
}

func (h *PublishHandler) Publish(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.WarnContext(ctx, "request body too large", "limit", tooLarge.Limit)
			writeError(c, service.ErrRequestBodyTooLarge)
			return
		}
		slog.WarnContext(ctx, "invalid request body", "error", err)
		writeError(c, service.ErrInvalidRequestBody.WithDetails(err.Error()))
		return
	}

	result, err := h.publishService.Publish(ctx, req.ToParams(middleware.APIKey(c)))
	if err != nil {
		classified := service.Classify(err)
		logFailure(c, "publish failed", classified, err)
		writeError(c, classified)
		return
	}

	c.JSON(http.StatusOK, dto.ToPublishResponse(result))
}

func (h *PublishHandler) Places(c *gin.Context) {
	ctx := c.Request.Context()

	places, err := h.publishService.ListPlaces(ctx, middleware.APIKey(c))
	if err != nil {
		classified := service.ClassifyListing(err)
		logFailure(c, "listing places failed", classified, err)
		writeError(c, classified)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlacesResponse(places))
}

func writeError(c *gin.Context, err *service.Error) {
	c.JSON(err.Status, dto.ToErrorResponse(err))
}

func logFailure(c *gin.Context, msg string, classified *service.Error, err error) {
	ctx := c.Request.Context()
	attrs := []any{
		"kind", classified.Kind,
		"status", classified.Status,
		"api_key", middleware.MaskedAPIKey(c),
		"error", err,
	}
	if classified.Status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, msg, attrs...)
		return
	}
	slog.WarnContext(ctx, msg, attrs...)
}
