package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mr0kk/hackYeah2025-guidy/internal/config"
	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	bookingsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/bookings"
	convsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/conversations"
	ledgersvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/ledger"
	matchessvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/matches"
	profilesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/profiles"
	swipesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/swipes"
	userssvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/users"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService         *authsvc.Service
	UserService         *userssvc.Service
	ProfileService      *profilesvc.Service
	SwipeService        *swipesvc.Service
	MatchService        *matchessvc.Service
	ConversationService *convsvc.Service
	LedgerService       *ledgersvc.Service
	BookingService      *bookingsvc.Service
	Logger              *zap.Logger
	Config              config.Config
}

// RegisterRoutes mounts the API surface twice, at the root and under /api,
// so older clients built against the prefixed paths keep working.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.UserService)
	meHandler := handlers.NewMeHandler(deps.UserService, deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	candidateHandler := handlers.NewCandidateHandler(deps.ProfileService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	messagesHandler := handlers.NewMessagesHandler(deps.ConversationService)
	pointsHandler := handlers.NewPointsHandler(deps.LedgerService)
	bookingsHandler := handlers.NewBookingsHandler(deps.BookingService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	mount := func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
		})

		r.With(authMW).Get("/me", meHandler.Handle)
		r.With(authMW).Delete("/me", meHandler.Deactivate)

		r.With(authMW).Put("/profile", profileHandler.Upsert)
		r.With(authMW).Get("/profile", profileHandler.Get)
		r.With(authMW).Get("/candidates", candidateHandler.Handle)

		r.With(authMW).Post("/swipes", swipeHandler.Handle)

		r.Route("/matches", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", matchesHandler.List)
			r.Get("/{id}", matchesHandler.Get)
			r.Delete("/{id}", matchesHandler.Deactivate)
			r.Get("/{id}/messages", messagesHandler.List)
			r.Post("/{id}/messages", messagesHandler.Post)
			r.Post("/{id}/messages/read", messagesHandler.MarkRead)
		})

		r.With(authMW).Get("/points", pointsHandler.Summary)

		r.Route("/bookings", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", bookingsHandler.Book)
			r.Get("/", bookingsHandler.List)
			r.Post("/{id}/confirm", bookingsHandler.Confirm)
			r.Post("/{id}/complete", bookingsHandler.Complete)
			r.Post("/{id}/cancel", bookingsHandler.Cancel)
		})
	}

	r.Get("/healthz", healthHandler.Get)
	mount(r)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)
		mount(r)
	})
}
