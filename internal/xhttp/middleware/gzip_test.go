package middleware

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garrettladley/titohook/internal/xhttp"
)

// agendaBody is shaped like a real agenda response and comfortably above gzipMinSize.
func agendaBody(sessions int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := range sessions {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"Id":"session-%d","Title":"Talk %d","Abstract":"An abstract about distributed systems.","Tags":["cloud"]}`, i, i)
	}
	b.WriteString("]")
	return b.String()
}

func TestGzip(t *testing.T) {
	t.Parallel()

	large := agendaBody(40)

	tests := []struct {
		name             string
		acceptEncoding   string
		body             string
		existingEncoding string
		wantGzip         bool
	}{
		{name: "large agenda compressed", acceptEncoding: "gzip", body: large, wantGzip: true},
		{name: "client lists several encodings", acceptEncoding: "br, gzip, deflate", body: large, wantGzip: true},
		{name: "small body sent as-is", acceptEncoding: "gzip", body: `{"Status":"ok"}`},
		{name: "no accept-encoding", body: large},
		{name: "gzip refused by quality", acceptEncoding: "gzip;q=0", body: large},
		{name: "accept-encoding without gzip", acceptEncoding: "deflate, br", body: large},
		{name: "already encoded", acceptEncoding: "gzip", body: large, existingEncoding: "br"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := Gzip(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				xhttp.SetHeaderContentTypeApplicationJSON(w)
				if tt.existingEncoding != "" {
					w.Header().Set(xhttp.ContentEncoding, tt.existingEncoding)
				}
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, tt.body)
			}))

			req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/agenda", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set(xhttp.AcceptEncoding, tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			resp := rec.Result()
			defer resp.Body.Close() //nolint:errcheck

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
			}

			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("failed to read response body: %v", err)
			}

			gotEncoding := resp.Header.Get(xhttp.ContentEncoding)
			switch {
			case tt.wantGzip:
				if gotEncoding != "gzip" {
					t.Fatalf("Content-Encoding = %q, want gzip", gotEncoding)
				}
				if !strings.Contains(strings.Join(resp.Header.Values(xhttp.Vary), ","), xhttp.AcceptEncoding) {
					t.Errorf("Vary = %q, want it to include %s", resp.Header.Values(xhttp.Vary), xhttp.AcceptEncoding)
				}
				decompressed, err := decompressGzip(raw)
				if err != nil {
					t.Fatalf("failed to decompress: %v", err)
				}
				if string(decompressed) != tt.body {
					t.Errorf("decompressed body mismatch: got %d bytes, want %d", len(decompressed), len(tt.body))
				}
			case tt.existingEncoding != "":
				if gotEncoding != tt.existingEncoding {
					t.Errorf("Content-Encoding = %q, want %q", gotEncoding, tt.existingEncoding)
				}
				if string(raw) != tt.body {
					t.Errorf("body was rewritten")
				}
			default:
				if gotEncoding != "" {
					t.Errorf("Content-Encoding = %q, want empty", gotEncoding)
				}
				if string(raw) != tt.body {
					t.Errorf("body = %q, want %q", raw, tt.body)
				}
			}
		})
	}
}

func TestGzipFlushMidResponse(t *testing.T) {
	t.Parallel()

	first, second := agendaBody(30), agendaBody(5)
	handler := Gzip(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xhttp.SetHeaderContentTypeApplicationJSON(w)
		_, _ = io.WriteString(w, first)
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		_, _ = io.WriteString(w, second)
	}))

	req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/agenda", nil)
	req.Header.Set(xhttp.AcceptEncoding, "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(xhttp.ContentEncoding); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	decompressed, err := decompressGzip(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	if got, want := len(decompressed), len(first)+len(second); got != want {
		t.Errorf("decompressed length = %d, want %d", got, want)
	}
}

func decompressGzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close() //nolint:errcheck

	return io.ReadAll(reader)
}
