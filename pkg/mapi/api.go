// Package mapi wires the chi router and huma API used by both services.
package mapi

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Api struct {
	Api    huma.API
	Router *chi.Mux
}

// NewApi creates a router with logging/recovery middleware and a huma
// API with OpenAPI docs for the given service.
func NewApi(title, version string) *Api {
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	config := huma.DefaultConfig(title, version)
	api := humachi.New(router, config)

	return &Api{Api: api, Router: router}
}
