package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware reutiliza el X-Request-ID entrante o genera uno nuevo,
// lo guarda en el contexto y lo devuelve en la respuesta.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// GetRequestID obtiene el request id desde el contexto.
func GetRequestID(c *gin.Context) string {
	val, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}
