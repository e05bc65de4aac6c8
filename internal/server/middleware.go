package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/strknn"
)

// requestLogger logs one line per request.
func requestLogger(logger *strknn.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(c.Request.Context(), "http request", attrs...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(c.Request.Context(), "http request", attrs...)
		default:
			logger.DebugContext(c.Request.Context(), "http request", attrs...)
		}
	}
}

// limitBody caps the size of the (compressed) request body.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// decompressBody transparently inflates gzip request bodies. The inflated
// stream is capped at n bytes as well.
func decompressBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetHeader("Content-Encoding"), "gzip") {
			c.Next()
			return
		}

		zr, err := gzip.NewReader(c.Request.Body)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
		defer zr.Close()

		var body io.ReadCloser = readCloser{Reader: zr, Closer: c.Request.Body}
		if n > 0 {
			body = http.MaxBytesReader(c.Writer, body, n)
		}
		c.Request.Body = body
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}
