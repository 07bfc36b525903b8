package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDataRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/fpl-data", handler.GetFPLData)
}

func registerStaticRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.GetIndex)
	mux.HandleFunc("GET /", handler.GetStaticFile)
}
