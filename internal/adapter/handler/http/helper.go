package http

import (
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func getAuthPayload(ctx *gin.Context, key string) (*domain.TokenPayload, bool) {
	value, exists := ctx.Get(key)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*domain.TokenPayload)
	if !ok {
		return nil, false
	}
	return payload, true
}

func getRequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
