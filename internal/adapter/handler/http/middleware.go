package http

import (
	"net/http"
	"strings"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationType       = "bearer"
	authorizationPayloadKey = "authorization_payload"

	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware propagates X-Request-ID, generating one when absent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func AuthMiddleware(token ports.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader(authorizationHeaderKey)
		if authorizationHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Auth header required")
			return
		}

		fields := strings.Fields(authorizationHeader)
		if len(fields) != 2 {
			newErrorResponse(c, http.StatusUnauthorized, "Auth fields required")
			return
		}

		currentAuthorizationType := strings.ToLower(fields[0])
		if currentAuthorizationType != authorizationType {
			newErrorResponse(c, http.StatusUnauthorized, "Not authorized")
			return
		}

		accessToken := fields[1]
		payload, err := token.VerifyToken(accessToken)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(authorizationPayloadKey, &payload)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		payload, ok := getAuthPayload(ctx, authorizationPayloadKey)
		if !ok {
			newErrorResponse(ctx, http.StatusUnauthorized, "Authorization required")
			return
		}

		if payload.Role != domain.Admin {
			newErrorResponse(ctx, http.StatusForbidden, "Admin access required")
			return
		}

		ctx.Next()
	}
}
