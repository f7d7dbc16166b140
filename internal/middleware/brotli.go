package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Section payloads run to tens of kilobytes of question text, which is
// why compression is worth the CPU here at all. Bodies under minCompress
// bytes (error envelopes, acks) go out as-is.
const minCompress = 1024

// BrotliConfig tunes the compression middleware.
type BrotliConfig struct {
	// Quality is the brotli level, 0..11.
	Quality int
	// MinLength is the smallest body that gets compressed.
	MinLength int
	// Skipper disables compression for matching requests.
	Skipper func(c *gin.Context) bool
}

// Brotli compresses response bodies at the default level for clients
// advertising br support.
func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(BrotliConfig{
		Quality:   brotli.DefaultCompression,
		MinLength: minCompress,
	})
}

// BrotliWithConfig is Brotli with explicit tuning.
func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < 0 || cfg.Quality > 11 {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = minCompress
	}

	return func(c *gin.Context) {
		switch {
		case mustPassThrough(c),
			cfg.Skipper != nil && cfg.Skipper(c),
			!acceptsBrotli(c.Request):
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		bw := &brotliWriter{
			ResponseWriter: c.Writer,
			minLength:      cfg.MinLength,
			writer:         brotli.NewWriterLevel(c.Writer, cfg.Quality),
		}
		c.Writer = bw

		defer func() {
			if err := bw.drainPlain(); err != nil {
				_ = c.Error(err)
			}
			if bw.compressed {
				bw.writer.Close()
			}
		}()

		c.Next()
	}
}

// brotliWriter buffers the body until it is clear whether compression
// pays off. Small bodies are flushed uncompressed on completion; once
// the buffer crosses minLength the encoding is committed and everything
// streams through the brotli writer.
type brotliWriter struct {
	gin.ResponseWriter
	writer     *brotli.Writer
	buf        []byte
	minLength  int
	once       sync.Once
	compressed bool
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	bw.buf = append(bw.buf, data...)
	if !bw.compressed && len(bw.buf) < bw.minLength {
		return len(data), nil
	}

	bw.once.Do(func() {
		bw.compressed = true
		bw.ResponseWriter.Header().Set("Content-Encoding", "br")
		bw.ResponseWriter.Header().Del("Content-Length")
	})
	n, err := bw.writer.Write(bw.buf)
	bw.buf = bw.buf[:0]
	return n, err
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

// Flush satisfies http.Flusher for streaming handlers: whatever is
// buffered goes out uncompressed so the client sees it immediately.
func (bw *brotliWriter) Flush() {
	_ = bw.drainPlain()
	bw.ResponseWriter.Flush()
}

func (bw *brotliWriter) drainPlain() error {
	if len(bw.buf) == 0 {
		return nil
	}
	_, err := bw.ResponseWriter.Write(bw.buf)
	bw.buf = bw.buf[:0]
	return err
}

// mustPassThrough reports protocols that break under buffered
// compression: the WebSocket upgrade handshake and event streams.
func mustPassThrough(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
