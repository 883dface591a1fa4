// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5/middleware"
)

// compressResponse gzips JSON documents for clients that accept it.
var compressResponse = middleware.Compress(gzip.DefaultCompression, "application/json")

var gzipReaders sync.Pool

// withGZip accepts gzip-encoded request bodies and compresses JSON
// responses. A large forest is sent whole in both directions.
func withGZip(next http.Handler) http.Handler {
	return decompressRequest(compressResponse(next))
}

func decompressRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gr, _ := gzipReaders.Get().(*gzip.Reader)
		if gr == nil {
			gr = new(gzip.Reader)
		}
		if err := gr.Reset(r.Body); err != nil {
			gzipReaders.Put(gr)
			writeError(w, r, "decompressRequest", ErrInvalidJSON)
			return
		}

		body := &gzipBody{Reader: gr}
		defer body.Close()

		r.Body = body
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1
		next.ServeHTTP(w, r)
	})
}

// gzipBody returns its reader to the pool on the first Close.
type gzipBody struct {
	*gzip.Reader
	done bool
}

func (b *gzipBody) Close() error {
	if b.done {
		return nil
	}
	b.done = true
	err := b.Reader.Close()
	gzipReaders.Put(b.Reader)
	return err
}

var _ io.ReadCloser = (*gzipBody)(nil)
