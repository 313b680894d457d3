package httpserver

import (
	"net/http"
	"time"

	"rental-app-go/internal/config"
	"rental-app-go/internal/transport/httpserver/handler"
	authmw "rental-app-go/internal/transport/httpserver/middleware"
	"rental-app-go/pkg/logger"
	"rental-app-go/pkg/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API router. A nil collector disables /metrics and the
// request instrumentation.
func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, collector *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if collector != nil {
		r.Use(collector.Middleware)
	}
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.HTTP.AllowedOrigins, cfg.HTTP.CORSMaxAge))

	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := authmw.NewSupabaseAuth(cfg.Auth, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Get("/properties", handlers.Properties.ListProperties)
			r.Post("/properties", handlers.Properties.CreateProperty)
			r.Get("/properties/{id}", handlers.Properties.GetProperty)
			r.Patch("/properties/{id}/status", handlers.Properties.UpdatePropertyStatus)

			r.Get("/viewings", handlers.Viewings.ListViewings)
			r.Post("/viewings", handlers.Viewings.RequestViewing)
			r.Get("/viewings/{id}", handlers.Viewings.GetViewing)
			r.Post("/viewings/{id}/confirm", handlers.Viewings.ConfirmViewing)
			r.Post("/viewings/{id}/reschedule", handlers.Viewings.RescheduleViewing)
			r.Post("/viewings/{id}/agree-reschedule", handlers.Viewings.AgreeReschedule)
			r.Post("/viewings/{id}/cancel", handlers.Viewings.CancelViewing)
			r.Post("/viewings/{id}/complete", handlers.Viewings.CompleteViewing)

			r.Get("/contracts", handlers.Contracts.ListContracts)
			r.Post("/contracts", handlers.Contracts.CreateContract)
			r.Get("/contracts/{id}", handlers.Contracts.GetContract)
			r.Post("/contracts/{id}/tenant-sign", handlers.Contracts.TenantSign)
			r.Post("/contracts/{id}/landlord-sign", handlers.Contracts.LandlordSign)
			r.Post("/contracts/{id}/activate", handlers.Contracts.ActivateContract)
			r.Post("/contracts/{id}/terminate", handlers.Contracts.TerminateContract)

			r.Get("/payments", handlers.Payments.ListPayments)
			r.Get("/payments/summary", handlers.Payments.PaymentSummary)
			r.Get("/payments/{id}", handlers.Payments.GetPayment)
			r.Post("/payments/{id}/proof", handlers.Payments.SubmitProof)
			r.Post("/payments/{id}/confirm", handlers.Payments.ConfirmPayment)

			r.Get("/analytics/income/summary", handlers.Analytics.IncomeSummary)
			r.Get("/analytics/income/monthly", handlers.Analytics.IncomeMonthly)
			r.Get("/analytics/income/compare", handlers.Analytics.IncomeCompare)
			r.Get("/analytics/top-properties", handlers.Analytics.TopProperties)

			r.Get("/repairs", handlers.Repairs.ListRepairs)
			r.Post("/repairs", handlers.Repairs.CreateRepair)
			r.Get("/repairs/{id}", handlers.Repairs.GetRepair)
			r.Post("/repairs/{id}/assign", handlers.Repairs.AssignRepair)
			r.Patch("/repairs/{id}/status", handlers.Repairs.UpdateRepairStatus)
			r.Post("/repairs/{id}/complete", handlers.Repairs.CompleteRepair)
			r.Post("/repairs/{id}/confirm", handlers.Repairs.ConfirmRepair)

			r.Get("/team/members", handlers.Team.ListMembers)
			r.Post("/team/members", handlers.Team.InviteMember)
			r.Get("/team/memberships", handlers.Team.ListMemberships)
			r.Post("/team/members/{id}/accept", handlers.Team.AcceptInvite)
			r.Patch("/team/members/{id}", handlers.Team.UpdateMemberRole)
			r.Delete("/team/members/{id}", handlers.Team.RemoveMember)

			r.Post("/verifications", handlers.Team.SubmitVerification)
			r.Get("/verifications/me", handlers.Team.GetVerification)
			r.Get("/verifications/pending", handlers.Team.ListPendingVerifications)
			r.Get("/verifications/users/{user_id}", handlers.Team.GetVerification)
			r.Post("/verifications/{id}/approve", handlers.Team.ApproveVerification)
			r.Post("/verifications/{id}/reject", handlers.Team.RejectVerification)

			r.Get("/notifications", handlers.Notifications.ListNotifications)
			r.Get("/notifications/unread-count", handlers.Notifications.UnreadCount)
			r.Post("/notifications/read-all", handlers.Notifications.MarkAllAsRead)
			r.Post("/notifications/{id}/read", handlers.Notifications.MarkAsRead)
		})
	})

	return r
}
