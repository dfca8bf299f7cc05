// This is a **mock authentication service**, designed to provide JWT tokens
// for the zoo registry API, simulating user authentication.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gartstein/zoo/internal/zoo/auth"
	"github.com/gartstein/zoo/internal/zoo/config"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const defaultPort = "8081"

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

// tokenHandler issues a token for the user named by ?user=.
func tokenHandler(secret string, logger *zap.Logger) runtime.HandlerFunc {
	marshaler := &runtime.JSONBuiltin{}
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = "keeper"
		}

		token, err := auth.GenerateToken(userID, secret)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		body, err := marshaler.Marshal(TokenResponse{Token: token})
		if err != nil {
			http.Error(w, "Failed to encode token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", marshaler.ContentType(nil))
		_, _ = w.Write(body)
	}
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	printOnly := flag.Bool("print", false, "print a token for -user and exit")
	user := flag.String("user", "keeper", "token subject used with -print")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("jwt_secret is not configured")
	}

	if *printOnly {
		token, err := auth.GenerateToken(*user, cfg.JWTSecret)
		if err != nil {
			logger.Fatal("failed to generate token", zap.Error(err))
		}
		_, _ = os.Stdout.WriteString(token + "\n")
		return
	}

	port := os.Getenv("AUTH_PORT")
	if port == "" {
		port = defaultPort
	}

	mux := runtime.NewServeMux()
	if err := mux.HandlePath(http.MethodPost, "/token", tokenHandler(cfg.JWTSecret, logger)); err != nil {
		logger.Fatal("failed to register route", zap.Error(err))
	}

	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	logger.Info("Authentication service running", zap.String("port", port))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("authentication service stopped", zap.Error(err))
	}
}
