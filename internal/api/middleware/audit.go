package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const maxAuditBody = 4096

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < maxAuditBody {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

// AuditMiddleware 记录写操作（拉黑、清空未读、发起会话）的操作人、请求体与响应
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}
		if len(reqBody) > maxAuditBody {
			reqBody = reqBody[:maxAuditBody]
		}

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		var operator string
		if id, ok := c.Get(UserIDKey); ok {
			if s, ok := id.(interface{ String() string }); ok {
				operator = s.String()
			}
		}
		log.InfoContext(ctx, "Audit",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("operator", operator),
			log.String("role", c.GetString(RoleKey)),
			log.String("req_body", string(reqBody)),
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
			log.String("res_body", w.body.String()),
		)
	}
}
