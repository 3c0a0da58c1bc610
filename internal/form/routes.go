package form

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the form intake routes with the chi router.
// rateLimit guards both endpoints with the per-IP submission limiter.
func RegisterRoutes(r chi.Router, handler *Handler, rateLimit func(next http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if rateLimit != nil {
			r.Use(rateLimit)
		}

		// POST /api/contact - Contact inquiry submission
		r.Post("/contact", handler.SubmitInquiry)

		// POST /api/job-application - Job application with CV upload
		r.Post("/job-application", handler.SubmitApplication)
	})
}
