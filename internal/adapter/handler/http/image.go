package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const statusClientClosedRequest = 499

type ImageHandler struct {
	imageService ports.ImageCacheService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

type ResolveRequest struct {
	URL     string `form:"url" binding:"required" example:"https://drzn.sa/wp-content/uploads/صورة.jpg"`
	Refresh bool   `form:"refresh" example:"false"`
}

type ImageDTO struct {
	URL     string `json:"url" example:"https://drzn.sa/wp-content/uploads/صورة.jpg"`
	Payload string `json:"payload" example:"data:image/jpeg;base64,/9j/4AAQSkZJRg=="`
}

func NewImageHandler(
	imageService ports.ImageCacheService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
		metrics:      metrics,
	}
}

// @Summary Resolve image
// @Description Returns the image as a base64 data URI, from cache or network
// @Tags images
// @Produce json
// @Param url query string true "Image URL"
// @Param refresh query bool false "Bypass the cache and refetch"
// @Success 200 {object} successResponse{data=ImageDTO} "Image resolved"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 502 {object} errorResponse "Image could not be fetched"
// @Router /images [get]
func (h *ImageHandler) Resolve(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	req, ok := h.bindResolveRequest(c)
	if !ok {
		return
	}

	payload, err := h.imageService.Resolve(c.Request.Context(), req.URL, req.Refresh)
	if err != nil {
		h.handleError(c, "Failed to resolve image", req.URL, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Image resolved", ImageDTO{
		URL:     req.URL,
		Payload: payload,
	})
}

// @Summary Resolve raw image
// @Description Returns the decoded image bytes with their content type
// @Tags images
// @Produce image/*
// @Param url query string true "Image URL"
// @Param refresh query bool false "Bypass the cache and refetch"
// @Success 200 {file} file "Image bytes"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 502 {object} errorResponse "Image could not be fetched"
// @Router /images/raw [get]
func (h *ImageHandler) Raw(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	req, ok := h.bindResolveRequest(c)
	if !ok {
		return
	}

	payload, err := h.imageService.Resolve(c.Request.Context(), req.URL, req.Refresh)
	if err != nil {
		h.handleError(c, "Failed to resolve raw image", req.URL, err)
		return
	}

	contentType, body, err := domain.ParseDataURI(payload)
	if err != nil {
		h.logger.Error("Cached payload is not a data uri", map[string]interface{}{
			"url":   req.URL,
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Cached image is corrupt")
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, contentType, body)
}

// @Summary Cache statistics
// @Description Number of cached images and approximate size in MB
// @Tags images
// @Produce json
// @Success 200 {object} successResponse{data=domain.Stats} "Cache statistics"
// @Router /images/stats [get]
func (h *ImageHandler) Stats(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	stats, err := h.imageService.Stats(c.Request.Context())
	if err != nil {
		h.handleError(c, "Failed to read cache stats", "", err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Cache statistics", stats)
}

// @Summary Clear cache
// @Description Removes every cached image from memory and the persistent store
// @Tags images
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successResponse "Cache cleared"
// @Failure 401 {object} errorResponse "Not authorized"
// @Failure 403 {object} errorResponse "Admin access required"
// @Failure 500 {object} errorResponse "Cache only partially cleared"
// @Router /images [delete]
func (h *ImageHandler) Clear(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.imageService.ClearAll(c.Request.Context()); err != nil {
		h.handleError(c, "Failed to clear image cache", "", err)
		return
	}

	fields := map[string]interface{}{
		"request_id": getRequestID(c),
	}
	if payload, ok := getAuthPayload(c, authorizationPayloadKey); ok {
		fields["subject"] = payload.Subject
	}
	h.logger.Info("Image cache cleared via API", fields)

	newSuccessResponse(c, http.StatusOK, "Cache cleared", nil)
}

// bindResolveRequest writes a 400 naming the offending parameter when the
// query does not bind.
func (h *ImageHandler) bindResolveRequest(c *gin.Context) (ResolveRequest, bool) {
	var req ResolveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("Invalid resolve request", map[string]interface{}{
			"error":      err.Error(),
			"request_id": getRequestID(c),
		})

		message := "Invalid query parameters"
		switch {
		case c.Query("url") == "":
			message = "Query parameter url is required"
		case c.Query("refresh") != "":
			message = "Query parameter refresh must be a boolean"
		}
		newErrorResponse(c, http.StatusBadRequest, message)
		return ResolveRequest{}, false
	}
	return req, true
}

func (h *ImageHandler) handleError(c *gin.Context, msg, url string, err error) {
	status, message := errorStatus(err)

	fields := map[string]interface{}{
		"error":      err.Error(),
		"status":     status,
		"request_id": getRequestID(c),
	}
	if url != "" {
		fields["url"] = url
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, fields)
	} else {
		h.logger.Info(msg, fields)
	}

	newErrorResponse(c, status, message)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "Image url is required"
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway, "Image could not be fetched"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Image fetch timed out"
	case errors.Is(err, domain.ErrStore):
		return http.StatusInternalServerError, "Image store failure"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}
