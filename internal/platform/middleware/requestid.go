// Package middleware はフィーチャー横断のginミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID はリクエストIDを伝搬するHTTPヘッダー名です。
const HeaderRequestID = "X-Request-Id"

// RequestID はリクエストごとに一意なIDを割り当てるミドルウェアを返します。
// クライアントが既にX-Request-Idを送っている場合はそれを尊重します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}
