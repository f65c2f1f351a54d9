package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/app/auth"
	"github.com/manukanwetan/umkm-api/app/dashboard"
	"github.com/manukanwetan/umkm-api/app/news"
	"github.com/manukanwetan/umkm-api/app/storage"
	"github.com/manukanwetan/umkm-api/app/umkm"
	"github.com/manukanwetan/umkm-api/app/user"
	"github.com/manukanwetan/umkm-api/config"
	"github.com/manukanwetan/umkm-api/models"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Umkm{},
		&models.Product{},
		&models.News{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up object storage")
	}

	userRepo := models.NewUserRepository(db)
	newsRepo := models.NewNewsRepository(db)
	umkmRepo := models.NewUmkmRepository(db)
	categoryRepo := models.NewCategoryRepository(db)
	productRepo := models.NewProductRepository(db)

	tokens := auth.NewTokens(cfg.Auth.SecretKey, cfg.Auth.TokenTTL())
	authn := auth.NewMiddleware(tokens, userRepo)

	newsHandler := news.NewNewsHandler(newsRepo, images, log)
	umkmHandler := umkm.NewUmkmHandler(umkmRepo, categoryRepo, productRepo, images, log)
	userHandler := user.NewUserHandler(userRepo, tokens, log)
	dashboardHandler := dashboard.NewDashboardHandler(newsRepo, umkmRepo)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		api.Message(w, http.StatusOK, "UMKM directory API")
	})

	mux.HandleFunc("GET /dashboard", dashboardHandler.HandleGet)

	mux.HandleFunc("GET /news", newsHandler.HandleList)
	mux.HandleFunc("GET /news/preview", newsHandler.HandlePreview)
	mux.HandleFunc("GET /news/{id}", newsHandler.HandleDetail)
	mux.HandleFunc("GET /news/other/{id}", newsHandler.HandleOther)
	mux.HandleFunc("POST /news/upload", authn.Require(newsHandler.HandleCreate))
	mux.HandleFunc("PATCH /news/edit/{id}", authn.Require(newsHandler.HandleEdit))
	mux.HandleFunc("DELETE /news/delete/{id}", authn.Require(newsHandler.HandleDelete))

	mux.HandleFunc("GET /umkm", umkmHandler.HandleList)
	mux.HandleFunc("GET /umkm/preview", umkmHandler.HandlePreview)
	mux.HandleFunc("GET /umkm/admin", authn.Require(umkmHandler.HandleAdminList))
	mux.HandleFunc("GET /umkm/{id}", umkmHandler.HandleDetail)
	mux.HandleFunc("GET /umkm/other/{id}", umkmHandler.HandleOther)
	mux.HandleFunc("POST /umkm/register", umkmHandler.HandleRegister)
	mux.HandleFunc("PATCH /umkm/approve/{id}", authn.Require(umkmHandler.HandleApprove))
	mux.HandleFunc("PATCH /umkm/{id}", authn.Require(umkmHandler.HandleUpdate))
	mux.HandleFunc("DELETE /umkm/{id}", authn.Require(umkmHandler.HandleDelete))

	mux.HandleFunc("GET /umkm/category", umkmHandler.HandleCategoryList)
	mux.HandleFunc("POST /umkm/category", authn.Require(umkmHandler.HandleCategoryCreate))
	mux.HandleFunc("DELETE /umkm/category/{id}", authn.Require(umkmHandler.HandleCategoryDelete))

	mux.HandleFunc("POST /umkm/product", umkmHandler.HandleProductCreate)
	mux.HandleFunc("PATCH /umkm/product/{id}", umkmHandler.HandleProductUpdate)

	mux.HandleFunc("POST /user/login", userHandler.HandleLogin)
	mux.HandleFunc("GET /user/info", userHandler.HandleInfo)
	mux.HandleFunc("PUT /user/update", authn.Require(userHandler.HandleUpdate))

	handler := api.CORS(api.RequestLogger(log)(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
