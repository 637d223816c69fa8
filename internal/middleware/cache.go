package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/config"
)

// captureWriter tees the response so a successful body can be stored in
// Redis after the handler runs.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// NewRedisCache caches successful responses on the public hotel routes.
// The cache key is derived from method, path and raw query, so the
// occupancy report's from/to parameters produce distinct entries.
// When rdb is nil the middleware passes requests through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || !cfg.Enabled || !cfg.Methods[c.Request().Method] {
				return next(c)
			}

			key := cacheKeyFrom(c, cfg.Prefix)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 200*time.Millisecond)
			cached, err := rdb.Get(ctx, key).Bytes()
			cancel()
			if err == nil {
				status, contentType, body, decodeErr := decodePayload(cached)
				if decodeErr == nil {
					c.Response().Header().Set(echo.HeaderContentType, contentType)
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(status, contentType, body)
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.buf.Len() <= cfg.MaxBody {
				contentType := c.Response().Header().Get(echo.HeaderContentType)
				payload := encodePayload(cw.status, contentType, cw.buf.Bytes())
				storeCtx, storeCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
				rdb.Set(storeCtx, key, payload, cfg.TTL)
				storeCancel()
			}
			return nil
		}
	}
}

func cacheKeyFrom(c echo.Context, prefix string) string {
	req := c.Request()
	h := sha1.Sum([]byte(req.Method + " " + req.URL.Path + "?" + req.URL.RawQuery))
	return prefix + ":" + hex.EncodeToString(h[:])
}

// Payload framing: 2 bytes status, 2 bytes content-type length, the
// content type, then the body.
func encodePayload(status int, contentType string, body []byte) []byte {
	out := make([]byte, 0, 4+len(contentType)+len(body))
	var head [4]byte
	binary.BigEndian.PutUint16(head[0:2], uint16(status))
	binary.BigEndian.PutUint16(head[2:4], uint16(len(contentType)))
	out = append(out, head[:]...)
	out = append(out, contentType...)
	out = append(out, body...)
	return out
}

func decodePayload(raw []byte) (status int, contentType string, body []byte, err error) {
	if len(raw) < 4 {
		return 0, "", nil, errBadPayload
	}
	status = int(binary.BigEndian.Uint16(raw[0:2]))
	ctLen := int(binary.BigEndian.Uint16(raw[2:4]))
	if len(raw) < 4+ctLen {
		return 0, "", nil, errBadPayload
	}
	contentType = string(raw[4 : 4+ctLen])
	body = raw[4+ctLen:]
	return status, contentType, body, nil
}

var errBadPayload = echo.NewHTTPError(http.StatusInternalServerError, "corrupt cache payload")
