// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	unitParam = "unit"
	kindParam = "kind"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Get("/api/ping", h.ping)

	router.Route("/api/units/{unit}/documents/{kind}", func(r chi.Router) {
		// the watch stream is a hijacked connection and is never compressed
		r.Get("/watch", h.watchDocument)

		r.Group(func(r chi.Router) {
			r.Use(withGZip)
			r.Get("/", h.readDocument)
			r.With(h.documentHashing).Put("/", h.writeDocument)
			r.Delete("/", h.deleteDocument)
		})
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
