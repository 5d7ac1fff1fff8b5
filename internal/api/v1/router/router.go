package router

import (
	"context"
	"net/http"
	"strings"

	"urge/internal/api/v1/handler"
	"urge/internal/config"
	"urge/internal/middleware"
	"urge/internal/repository"
	"urge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	// 1. Open DB connection pool
	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(pool)
	streakRepo := repository.NewStreakRepo(pool)
	relapseRepo := repository.NewRelapseRepo(pool)
	journalRepo := repository.NewJournalRepo(pool)
	buddyRepo := repository.NewBuddyRepo(pool)

	userSvc := service.NewUserService(userRepo, buddyRepo, logger)
	streakSvc := service.NewStreakService(streakRepo, relapseRepo, logger)
	journalSvc := service.NewJournalService(journalRepo, logger)
	buddySvc := service.NewBuddyService(buddyRepo, userRepo, streakRepo, relapseRepo, logger)

	userHandler := handler.NewUserHandler(userSvc, validate, logger)
	streakHandler := handler.NewStreakHandler(streakSvc, validate, logger)
	journalHandler := handler.NewJournalHandler(journalSvc, validate, logger)
	buddyHandler := handler.NewBuddyHandler(buddySvc, validate, logger)

	// 4. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// 5. Create ServeMux router with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	streakHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	journalHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	buddyHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 6. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSAllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), pool, nil
}
