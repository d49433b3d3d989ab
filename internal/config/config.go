package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Env holds the provider keys and base URL shared with the frontend.
type Env struct {
	OpenAIAPIKey        string
	TranscriptionAPIKey string
	APIBaseURL          string
}

type Database struct {
	DSN string
}

type Storage struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string
}

type Auth struct {
	GoogleKey     string
	GoogleSecret  string
	CallbackURL   string
	SessionSecret string
	SecureCookie  bool
}

type Server struct {
	Addr string
}

type Config struct {
	Env      Env
	Database Database
	Storage  Storage
	Auth     Auth
	Server   Server
}

// Load reads .env (if present) into the process environment and builds a
// Config from it.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment:", err)
	}
	return FromEnv()
}

func FromEnv() *Config {
	return &Config{
		Env: Env{
			OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
			TranscriptionAPIKey: os.Getenv("ASSEMBLYAI_API_KEY"),
			APIBaseURL:          os.Getenv("API_BASE_URL"),
		},
		Database: Database{
			DSN: os.Getenv("DSN"),
		},
		Storage: Storage{
			AccountID:       os.Getenv("ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("ACCESS_KEY_SECRET"),
			BucketName:      os.Getenv("BUCKET_NAME"),
			PublicURL:       os.Getenv("PUBLIC_URL"),
		},
		Auth: Auth{
			GoogleKey:     os.Getenv("GOOGLE_KEY"),
			GoogleSecret:  os.Getenv("GOOGLE_SECRET"),
			CallbackURL:   getenv("GOOGLE_CALLBACK_URL", "http://localhost:3000/auth/google/callback"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			SecureCookie:  os.Getenv("SECURE_COOKIE") == "true",
		},
		Server: Server{
			Addr: getenv("ADDR", ":3000"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
