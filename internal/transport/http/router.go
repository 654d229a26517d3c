package http

import (
	"net/http"

	"github.com/campus-events-api/internal/application/club"
	"github.com/campus-events-api/internal/application/clubaccess"
	"github.com/campus-events-api/internal/application/clubpin"
	"github.com/campus-events-api/internal/application/event"
	"github.com/campus-events-api/internal/application/session"
	"github.com/campus-events-api/internal/application/upload"
	"github.com/campus-events-api/internal/application/user"
	"github.com/campus-events-api/internal/config"
	jwtinfra "github.com/campus-events-api/internal/infrastructure/jwt"
	"github.com/campus-events-api/internal/infrastructure/mail"
	"github.com/campus-events-api/internal/transport/http/handler"
	appmiddleware "github.com/campus-events-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router. Mailer,
// ObjectStore, JWTProvider, OAuth and Google may be nil when the matching
// provider is not configured.
type Deps struct {
	Stores      Stores
	Mailer      mail.Mailer
	ObjectStore upload.ObjectStore
	JWTProvider *jwtinfra.Provider
	OAuth       OAuthProvider
	Google      IDTokenVerifier
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	sessionDeps := session.ServiceDeps{OAuth: deps.OAuth, Google: deps.Google}
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider, cfg.SessionCookieName)
		sessionDeps.Tokens = deps.JWTProvider
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 for the code, PIN and sign-in endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(user.ServiceDeps{UserRepo: deps.Stores.Users})
	sessionDeps.Users = userSvc
	sessionSvc := session.NewService(sessionDeps)
	clubSvc := club.NewService(club.ServiceDeps{ClubRepo: deps.Stores.Clubs})
	eventSvc := event.NewService(event.ServiceDeps{EventRepo: deps.Stores.Events, ClubRepo: deps.Stores.Clubs})
	accessSvc := clubaccess.NewService(clubaccess.ServiceDeps{
		OTPRepo:  deps.Stores.OTPs,
		ClubRepo: deps.Stores.Clubs,
		Mailer:   deps.Mailer,
	})
	pinSvc := clubpin.NewService(clubpin.ServiceDeps{
		PendingClubRepo: deps.Stores.PendingClubs,
		Mailer:          deps.Mailer,
	})
	uploadSvc := upload.NewService(upload.ServiceDeps{
		Store:          deps.ObjectStore,
		Buckets:        cfg.Storage.Buckets,
		DefaultBucket:  cfg.Storage.DefaultBucket,
		PlaceholderURL: cfg.Storage.PlaceholderURL,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(sessionSvc, handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionCookieSecure,
		TTL:    cfg.SessionTTL,
	}, cfg.AppBaseURL)
	userH := handler.NewUserHandler(userSvc)
	clubH := handler.NewClubHandler(clubSvc)
	eventH := handler.NewEventHandler(eventSvc)
	accessH := handler.NewClubAccessHandler(accessSvc)
	pinH := handler.NewClubPinHandler(pinSvc, cfg.AppEnv != "production")
	uploadH := handler.NewUploadHandler(uploadSvc)

	r.Get("/health-check/{action}", healthH.Ping)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/authorize", authH.Authorize)
		r.Get("/callback", authH.Callback)
		r.With(sensitiveRL.Limit).Post("/google", authH.Google)
		r.Post("/logout", authH.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)
			r.Post("/club-access/send-otp", accessH.SendOTP)
			r.Post("/club-access/verify", accessH.Verify)
			r.Post("/verify-club", pinH.VerifyClub)
			r.Post("/send-club-pin", pinH.SendPin)
			r.Post("/club-signup", pinH.Signup)
			r.Post("/upload", uploadH.Upload)
		})
		r.Get("/clubs", clubH.List)
		r.Get("/clubs/{id}", clubH.Get)
		r.Get("/clubs/{id}/events", eventH.ListByClub)
		r.Get("/events", eventH.ListUpcoming)
		r.Get("/events/{id}", eventH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/me", userH.Me)
			r.Post("/users/sync", userH.Sync)
			r.Post("/clubs", clubH.Create)
			r.Put("/clubs/{id}", clubH.Update)
			r.Post("/clubs/{id}/events", eventH.Create)
			r.Put("/events/{id}", eventH.Update)
			r.Delete("/events/{id}", eventH.Delete)
		})
	})

	return r
}
