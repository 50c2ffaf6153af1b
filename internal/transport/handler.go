package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-image-quality/internal/config"
	apperrors "go-image-quality/internal/errors"
	"go-image-quality/internal/logger"
	"go-image-quality/internal/service"
	"go-image-quality/pkg/models"
)

const (
	// RequestIDHeader carries the request ID in both directions
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"

	// multipartOverhead is allowed on top of MaxUploadSize for form framing
	multipartOverhead = 1 << 20
)

// StatsProvider exposes evaluation counters
type StatsProvider interface {
	Stats() models.StatsResponse
}

func NewHandler(svc service.EvaluationService, stats StatsProvider, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxUploadSize+multipartOverhead),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/stats", getStats(stats))
	r.POST("/evaluate", evaluateSource(svc, cfg))
	r.POST("/evaluate/upload", evaluateUpload(svc, cfg))

	return r
}

func evaluateSource(svc service.EvaluationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.EvaluationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		if err := svc.Validate(req.Source); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image source", err)
			return
		}

		resp, err := svc.Evaluate(ctx, req.Source)
		if err != nil {
			respondError(c, statusFor(err), "evaluation failed", err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func evaluateUpload(svc service.EvaluationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(c, http.StatusRequestEntityTooLarge, "upload too large", err)
				return
			}
			respondError(c, http.StatusBadRequest, "missing form file \"file\"", err)
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable upload", err)
			return
		}
		defer f.Close()

		resp, err := svc.EvaluateUpload(ctx, f, filepath.Base(fh.Filename))
		if err != nil {
			respondError(c, statusFor(err), "evaluation failed", err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func getStats(stats StatsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, stats.Stats())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions

// requestID tags each request with a UUID, reusing a valid incoming one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id":  c.GetString(requestIDKey),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		}).Info("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, statusFor(err.Err), "request processing failed", err)
		}
	}
}

func statusFor(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	id := c.GetString(requestIDKey)

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  id,
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:     http.StatusText(code),
		Message:   fmt.Sprintf("%s: %v", message, err),
		RequestID: id,
	})
}
