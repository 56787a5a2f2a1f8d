package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	activityhandler "github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/handler"
	activityrepo "github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/repo"
	activityservice "github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/service"
	adminshandler "github.com/RidgelineRealtyCo/broker-portal/domains/admins/be/handler"
	adminsrepo "github.com/RidgelineRealtyCo/broker-portal/domains/admins/be/repo"
	adminsservice "github.com/RidgelineRealtyCo/broker-portal/domains/admins/be/service"
	listingshandler "github.com/RidgelineRealtyCo/broker-portal/domains/listings/be/handler"
	listingsrepo "github.com/RidgelineRealtyCo/broker-portal/domains/listings/be/repo"
	listingsservice "github.com/RidgelineRealtyCo/broker-portal/domains/listings/be/service"
	platformauth "github.com/RidgelineRealtyCo/broker-portal/platform/go/auth"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/gcp"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/identity"
	platformlogging "github.com/RidgelineRealtyCo/broker-portal/platform/go/logging"
	platformmiddleware "github.com/RidgelineRealtyCo/broker-portal/platform/go/middleware"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/storage"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	AuthProvider    string        `env:"AUTH_PROVIDER" envDefault:"firebase"` // firebase | dev
	StorageBackend  string        `env:"STORAGE_BACKEND" envDefault:"gcs"`    // gcs | local
	StorageBucket   string        `env:"STORAGE_BUCKET"`                      // required when STORAGE_BACKEND=gcs
	StorageLocalDir string        `env:"STORAGE_LOCAL_DIR" envDefault:"./.data/storage"`
	StorageLocalURL string        `env:"STORAGE_LOCAL_URL" envDefault:"http://localhost:3000/files"`
	SendGridAPIKey  string        `env:"SENDGRID_API_KEY,required"`
	ResetFromName   string        `env:"RESET_FROM_NAME" envDefault:"Broker Portal"`
	ResetFromEmail  string        `env:"RESET_FROM_EMAIL,required"`
	ResetRedirect   string        `env:"RESET_REDIRECT_URL,required"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "portal-api",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	// The identity store is Firebase-backed regardless of AUTH_PROVIDER;
	// the provider flag only switches token verification for local work.
	_, fbAuth, err := gcp.InitFirebaseAuth(ctx)
	if err != nil {
		logger.Fatal("init firebase auth", zap.Error(err))
	}

	mailer := identity.NewSendGridMailer(cfg.SendGridAPIKey, cfg.ResetFromName, cfg.ResetFromEmail)
	identityStore := identity.NewFirebaseStore(fbAuth, mailer)

	var objectStore storage.ObjectStore
	switch cfg.StorageBackend {
	case "gcs":
		if cfg.StorageBucket == "" {
			logger.Fatal("storage bucket required when STORAGE_BACKEND=gcs")
		}
		gcsClient, err := gcs.NewClient(ctx)
		if err != nil {
			logger.Fatal("init gcs client", zap.Error(err))
		}
		defer gcsClient.Close()
		objectStore = storage.NewGCSStore(gcsClient, cfg.StorageBucket)
	case "local":
		if strings.TrimSpace(cfg.StorageLocalDir) == "" {
			logger.Fatal("storage local dir required when STORAGE_BACKEND=local")
		}
		objectStore = storage.NewLocalStore(cfg.StorageLocalDir, cfg.StorageLocalURL)
	default:
		logger.Fatal("invalid STORAGE_BACKEND (use gcs or local)", zap.String("backend", cfg.StorageBackend))
	}

	activityStore, err := persistence.NewActivityLogStore(pool)
	if err != nil {
		logger.Fatal("init activity log store", zap.Error(err))
	}
	activityRepo := activityrepo.NewPostgresRepository(activityStore)
	activitySvc := activityservice.New(activityRepo)
	activityHTTPHandler := activityhandler.New(activitySvc, logger)

	listingStore, err := persistence.NewListingStore(pool)
	if err != nil {
		logger.Fatal("init listing store", zap.Error(err))
	}
	listingRepo := listingsrepo.NewPostgresRepository(listingStore)
	listingSvc := listingsservice.New(listingRepo, objectStore, activitySvc, logger)
	listingHTTPHandler := listingshandler.New(listingSvc, logger)

	adminStore, err := persistence.NewAdminStore(pool)
	if err != nil {
		logger.Fatal("init admin store", zap.Error(err))
	}
	adminRepo := adminsrepo.NewPostgresRepository(adminStore)
	adminSvc := adminsservice.New(adminRepo, identityStore, cfg.ResetRedirect, logger)
	adminHTTPHandler := adminshandler.New(adminSvc, logger)

	authMiddleware := buildAuthMiddleware(cfg, fbAuth, logger)

	rootRouter := chi.NewRouter()
	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)
	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if cfg.StorageBackend == "local" {
		fileServer := http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.StorageLocalDir)))
		rootRouter.Get("/files/*", fileServer.ServeHTTP)
	}

	apiRouter := chi.NewRouter()
	apiRouter.Group(listingHTTPHandler.PublicRoutes)

	apiRouter.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(withActor)

		r.Group(func(r chi.Router) {
			r.Use(platformauth.RequireRole("admin"))
			listingHTTPHandler.AdminRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(platformauth.RequireRole("superadmin"))
			adminHTTPHandler.Routes(r)
			activityHTTPHandler.Routes(r)
		})
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
