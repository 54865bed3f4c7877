package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/application"
)

type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", handler.listUsers)
			r.Route("/{user_id}", func(r chi.Router) {
				r.Get("/", handler.getUser)
				r.Put("/role", handler.updateUserRole)
				r.Post("/follow", handler.follow)
				r.Delete("/follow/{target_id}", handler.unfollow)
				r.Get("/followers", handler.getFollowers)
				r.Get("/followers/count", handler.getFollowerCount)
				r.Get("/following", handler.getFollowing)
				r.Get("/suggested-follows", handler.getSuggestedFollows)
				r.Get("/notifications", handler.listNotifications)
				r.Get("/messages/{other_id}", handler.listMessages)
			})
		})

		r.Get("/sellers/{user_id}/products", handler.listSellerProducts)
		r.Get("/sellers/{user_id}/products/quota", handler.sellerProductQuota)

		r.Route("/collaboration-requests", func(r chi.Router) {
			r.Post("/", handler.createCollaboration)
			r.Put("/{request_id}", handler.updateCollaborationStatus)
			r.Get("/seller/{user_id}", handler.listSellerCollaborations)
			r.Get("/influencer/{user_id}", handler.listInfluencerCollaborations)
		})

		r.Route("/campaign-requests", func(r chi.Router) {
			r.Post("/", handler.createCampaign)
			r.Get("/pending", handler.listPendingCampaigns)
			r.Get("/seller/{user_id}", handler.listSellerCampaigns)
			r.Get("/influencer/{user_id}", handler.listInfluencerCampaigns)
			r.Delete("/{request_id}", handler.cancelCampaign)
			r.Post("/{request_id}/approve", handler.approveCampaign)
			r.Post("/{request_id}/reject", handler.rejectCampaign)
		})

		r.Route("/admin-actions", func(r chi.Router) {
			r.Get("/", handler.listAdminActions)
			r.Put("/{admin_id}", handler.updateAdminAction)
		})

		r.Put("/messages/{message_id}/read", handler.markMessageRead)
	})
	return r
}
