package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/api"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/auth"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/middleware"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/service"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage/memory"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage/postgres"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage/sqlite"
	"github.com/abdul037/yourwealthadvisor-sub001/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// newStore selects the storage backend from DB_DRIVER: sqlite (default),
// postgres, or memory.
func newStore() (storage.Store, error) {
	switch driver := getEnv("DB_DRIVER", "sqlite"); driver {
	case "sqlite":
		dbPath := getEnv("DB_PATH", "./data/ledger.db")
		store, err := sqlite.New(dbPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", driver, "database", dbPath)
		return store, nil
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL required for postgres driver")
		}
		store, err := postgres.New(dsn)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", driver)
		return store, nil
	case "memory":
		slog.Info("Storage initialized", "driver", driver)
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}

func main() {
	logging.Setup()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := newStore()
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	authSvc := service.NewAuthService(authenticator, jwtManager, store)
	groupSvc := service.NewGroupService(store)
	expenseSvc := service.NewExpenseService(store)
	settlementSvc := service.NewSettlementService(store, service.NoopLedger{})

	mux := api.New(authSvc, groupSvc, expenseSvc, settlementSvc, jwtManager).Handler()

	// Middleware, outermost first: CORS, request logging, metrics.
	wrapped := middleware.CORS(os.Getenv("CORS_ORIGIN"))(
		middleware.Logging(
			middleware.Metrics(mux)))

	// h2c allows HTTP/2 without TLS behind a terminating proxy.
	h2cHandler := h2c.NewHandler(wrapped, &http2.Server{})

	addr := ":" + getEnv("PORT", "8080")
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
