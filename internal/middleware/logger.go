package middleware

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger logs one structured line per request with latency and the
// authenticated user when present.
func RequestLogger() gin.HandlerFunc {
	return ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zapcore.Field {
			var fields []zapcore.Field
			if id := c.GetInt64("user_id"); id != 0 {
				fields = append(fields, zap.Int64("user_id", id))
			}
			return fields
		},
	})
}

// Recovery turns panics into logged 500s instead of dropped connections.
func Recovery() gin.HandlerFunc {
	return ginzap.RecoveryWithZap(zap.L(), true)
}
