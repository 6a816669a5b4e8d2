// Package middleware holds transport-level middleware that is not tied
// to a specific service.
package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // Minimum response size to compress (bytes)
	CompressionLevel int      // Gzip compression level (1-9)
	ContentTypes     []string // Content types to compress
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024,
		CompressionLevel: 6,
		ContentTypes: []string{
			"application/json",
			"text/plain",
			"text/html",
			"text/css",
			"application/javascript",
		},
	}
}

// CompressionMiddleware provides gzip compression for HTTP responses
type CompressionMiddleware struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

// NewCompressionMiddleware creates a new compression middleware
func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	cm := &CompressionMiddleware{
		config: config,
		stats:  &CompressionStats{},
	}
	cm.pool = sync.Pool{
		New: func() interface{} {
			gz, _ := gzip.NewWriterLevel(io.Discard, config.CompressionLevel)
			return gz
		},
	}
	return cm
}

// Handler returns a Gin middleware that compresses eligible responses.
// Responses smaller than MinSize are passed through untouched.
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gcw := &gzipCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = gcw
		c.Next()

		cm.finish(gcw)
	}
}

// finish decides whether the buffered response is worth compressing and
// writes it out either way.
func (cm *CompressionMiddleware) finish(gcw *gzipCaptureWriter) {
	body := gcw.raw
	contentType := gcw.Header().Get("Content-Type")

	if len(body) < cm.config.MinSize || !cm.shouldCompress(contentType) {
		cm.stats.RecordResponse(int64(len(body)), int64(len(body)), false)
		gcw.flushPlain()
		return
	}

	gz := cm.pool.Get().(*gzip.Writer)
	defer cm.pool.Put(gz)

	written, err := gcw.flushCompressed(gz)
	if err != nil {
		// Fall back to the uncompressed body rather than drop the response.
		gcw.flushPlain()
		cm.stats.RecordResponse(int64(len(body)), int64(len(body)), false)
		return
	}
	cm.stats.RecordResponse(int64(len(body)), written, true)
}

// shouldCompress checks if the content type should be compressed
func (cm *CompressionMiddleware) shouldCompress(contentType string) bool {
	for _, ct := range cm.config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

// GetStats returns compression statistics
func (cm *CompressionMiddleware) GetStats() map[string]interface{} {
	return cm.stats.GetStats()
}

// gzipCaptureWriter buffers the response body so the middleware can make
// the compress-or-not decision once the full size is known.
type gzipCaptureWriter struct {
	gin.ResponseWriter
	raw     []byte
	status  int
	flushed bool
}

func (w *gzipCaptureWriter) Write(data []byte) (int, error) {
	w.raw = append(w.raw, data...)
	return len(data), nil
}

func (w *gzipCaptureWriter) WriteString(s string) (int, error) {
	w.raw = append(w.raw, s...)
	return len(s), nil
}

func (w *gzipCaptureWriter) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *gzipCaptureWriter) WriteHeaderNow() {}

// Status reports the captured status so middleware running after this
// writer still sees the handler's real status code.
func (w *gzipCaptureWriter) Status() int {
	return w.statusCode()
}

func (w *gzipCaptureWriter) Written() bool {
	return w.flushed || len(w.raw) > 0 || w.status != 0
}

func (w *gzipCaptureWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *gzipCaptureWriter) Size() int { return len(w.raw) }

func (w *gzipCaptureWriter) flushPlain() {
	w.flushed = true
	w.ResponseWriter.WriteHeader(w.statusCode())
	_, _ = w.ResponseWriter.Write(w.raw)
}

func (w *gzipCaptureWriter) flushCompressed(gz *gzip.Writer) (int64, error) {
	w.flushed = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.statusCode())

	cw := &countingWriter{w: w.ResponseWriter}
	gz.Reset(cw)
	if _, err := gz.Write(w.raw); err != nil {
		return cw.n, err
	}
	if err := gz.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	TotalResponses      int64
	CompressedResponses int64
	TotalBytes          int64
	CompressedBytes     int64
	mutex               sync.RWMutex
}

// RecordResponse records a response's compression outcome
func (cs *CompressionStats) RecordResponse(originalSize, writtenSize int64, compressed bool) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.TotalResponses++
	cs.TotalBytes += originalSize

	if compressed {
		cs.CompressedResponses++
		cs.CompressedBytes += writtenSize
	}
}

// GetStats returns current compression statistics
func (cs *CompressionStats) GetStats() map[string]interface{} {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	ratio := float64(0)
	if cs.TotalBytes > 0 {
		ratio = float64(cs.CompressedBytes) / float64(cs.TotalBytes)
	}

	return map[string]interface{}{
		"total_responses":      cs.TotalResponses,
		"compressed_responses": cs.CompressedResponses,
		"total_bytes":          cs.TotalBytes,
		"compressed_bytes":     cs.CompressedBytes,
		"compression_ratio":    ratio,
	}
}
