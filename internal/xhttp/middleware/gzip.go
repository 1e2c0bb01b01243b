package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/klauspost/compress/gzip"
)

// gzipMinSize keeps short JSON bodies uncompressed; the full agenda is well above it.
const gzipMinSize = 1024

var gzipWrapper = newGzipWrapper()

func newGzipWrapper() func(http.Handler) http.HandlerFunc {
	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(gzipMinSize),
		gzhttp.CompressionLevel(gzip.DefaultCompression),
	)
	if err != nil {
		panic("invalid gzip options: " + err.Error())
	}
	return wrap
}

// Gzip compresses responses of at least gzipMinSize bytes for clients that
// accept gzip. Responses that already carry a Content-Encoding pass through.
func Gzip(next http.Handler) http.Handler {
	return gzipWrapper(next)
}
