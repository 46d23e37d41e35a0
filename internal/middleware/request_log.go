package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id" // string
)

// RequestLog はリクエストIDを振って、1リクエスト1行で slog に出す。
// クライアントが X-Request-ID を送ってきたらそれを使う。
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set(CtxRequestIDKey, reqID)
			c.Response().Header().Set(HeaderRequestID, reqID)

			err := next(c)
			if err != nil {
				//echoのエラーハンドラでステータスを確定させる
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"request_id", reqID,
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"latency", time.Since(start),
			}
			switch {
			case status >= 500:
				log.Error("request", append(attrs, "error", err)...)
			case status >= 400:
				log.Warn("request", attrs...)
			default:
				log.Info("request", attrs...)
			}
			return nil
		}
	}
}
