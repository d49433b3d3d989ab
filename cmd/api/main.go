package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/auth"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/config"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/database"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/handlers"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/storage"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/upload"
)

func main() {
	cfg := config.Load()
	if cfg.Env.OpenAIAPIKey == "" || cfg.Env.TranscriptionAPIKey == "" {
		log.Println("Provider API keys are not set; chat and transcription calls will fail")
	}

	// Chi
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// OAUTH
	goth.UseProviders(google.New(cfg.Auth.GoogleKey, cfg.Auth.GoogleSecret, cfg.Auth.CallbackURL))

	// Session store
	store := sessions.NewCookieStore([]byte(cfg.Auth.SessionSecret))
	store.MaxAge(int(auth.SessionTTL / time.Second))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.Auth.SecureCookie
	gothic.Store = store

	// Database connection
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// R2 object storage
	client, err := storage.NewR2Client(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal("ERR CONFIG:", err)
	}
	bucket := storage.NewBucket(client, cfg.Storage.BucketName, cfg.Storage.PublicURL)

	// User auth
	r.Get("/auth/{provider}/callback", withProvider(func(w http.ResponseWriter, r *http.Request) {
		handlers.UserLoginHandler(w, r, db)
	}))
	r.Post("/logout/{provider}", withProvider(func(w http.ResponseWriter, r *http.Request) {
		handlers.LogoutHandler(w, r, db)
	}))
	r.Get("/auth/{provider}", withProvider(gothic.BeginAuthHandler))

	// Available API routes for authenticated users
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.UserMiddleware(db))
		r.Use(httprate.Limit(
			20,
			1*time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
		))
		r.With(upload.Single("image", upload.DefaultConfig)).Post("/upload", func(w http.ResponseWriter, r *http.Request) {
			handlers.UploadImageHandler(w, r, db, bucket)
		})
		r.Get("/images", func(w http.ResponseWriter, r *http.Request) {
			handlers.GetImagesForUserHandler(w, r, db, bucket)
		})
		r.Get("/images/{id}", func(w http.ResponseWriter, r *http.Request) {
			handlers.GetImageByIDHandler(w, r, db, bucket)
		})
		r.Post("/chats", func(w http.ResponseWriter, r *http.Request) {
			handlers.CreateChatHandler(w, r, db)
		})
		r.Get("/chats", func(w http.ResponseWriter, r *http.Request) {
			handlers.ListChatsHandler(w, r, db)
		})
		r.Get("/user", func(w http.ResponseWriter, r *http.Request) {
			handlers.GetUserHandler(w, r, db)
		})
	})

	log.Printf("Starting API server on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, r))
}

// withProvider exposes chi's {provider} param to gothic.
func withProvider(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, gothic.GetContextWithProvider(r, chi.URLParam(r, "provider")))
	}
}
