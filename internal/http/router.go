package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pennywise/internal/api"
	"github.com/MrJamesThe3rd/pennywise/internal/http/category"
	"github.com/MrJamesThe3rd/pennywise/internal/http/export"
	"github.com/MrJamesThe3rd/pennywise/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pennywise/internal/http/transaction"
)

func New(
	allowedOrigins []string,
	transactionsV1 *transaction.Handler,
	categoriesV1 *category.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route(api.BasePath, func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/categories", categoriesV1.Routes)

		r.Route("/import", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			importV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
