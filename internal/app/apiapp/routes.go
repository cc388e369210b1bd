package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dxvzz/blend/internal/config"
	authsvc "github.com/dxvzz/blend/internal/services/auth"
	chatssvc "github.com/dxvzz/blend/internal/services/chats"
	feedsvc "github.com/dxvzz/blend/internal/services/feed"
	matchessvc "github.com/dxvzz/blend/internal/services/matches"
	mediasvc "github.com/dxvzz/blend/internal/services/media"
	profilesvc "github.com/dxvzz/blend/internal/services/profiles"
	swipesvc "github.com/dxvzz/blend/internal/services/swipes"
	"github.com/dxvzz/blend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	ProfileService *profilesvc.Service
	FeedService    *feedsvc.Service
	SwipeService   *swipesvc.Service
	MatchService   *matchessvc.Service
	ChatService    *chatssvc.Service
	MediaService   *mediasvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	meHandler := handlers.NewMeHandler(deps.ProfileService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	quotaHandler := handlers.NewQuotaHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	chatsHandler := handlers.NewChatsHandler(deps.ChatService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", handlers.Health)
	r.Get("/onboarding/questions", profileHandler.Questions)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/google", authHandler.Google)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Get("/me", meHandler.Handle)
		r.Post("/profile", profileHandler.Submit)
		r.Post("/media/photo", mediaHandler.UploadPhoto)
		r.Get("/feed", feedHandler.Handle)
		r.Post("/swipe", swipeHandler.Handle)
		r.Get("/quota", quotaHandler.Handle)
		r.Get("/matches", matchesHandler.Handle)
		r.Get("/conversations", chatsHandler.List)
		r.Get("/conversations/with/{user_id}", chatsHandler.Resolve)
		r.Get("/conversations/{id}", chatsHandler.Get)
		r.Post("/messages", chatsHandler.SendMessage)
	})
}
