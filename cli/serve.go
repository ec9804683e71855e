package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pubquiz/config"
	"pubquiz/handlers"
	"pubquiz/middleware"
	"pubquiz/routes"
	"pubquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	cfg := config.Load()
	log := newLogger()

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := migrateModels(db); err != nil {
		return err
	}

	redisClient := config.InitRedis(cfg)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, question timing falls back to the database")
	}

	imageService, err := services.NewImageService(cfg.UploadDir, log)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(cfg, log)

	roundService := services.NewRoundService(db, log)
	questionService := services.NewQuestionService(db, imageService, log)
	importService := services.NewImportService(db, log)
	quizService := services.NewQuizService(db, cfg, log)
	scoreboardService := services.NewScoreboardService(db, roundService)
	userService := services.NewUserService(db)
	authService := services.NewAuthService(db, emailService, cfg, log)
	timingStore := services.NewTimingStore(redisClient)

	authHandler := handlers.NewAuthHandler(authService, log)
	quizHandler := handlers.NewQuizHandler(quizService, roundService, timingStore, log)
	scoreboardHandler := handlers.NewScoreboardHandler(scoreboardService, roundService)
	adminHandler := handlers.NewAdminHandler(roundService, questionService, importService, userService, imageService, log)
	imageHandler := handlers.NewImageHandler(imageService)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	authService.StartSweeper(sweepCtx, time.Duration(cfg.TokenSweepMinutes)*time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))

	routes.SetupRoutes(router, authHandler, quizHandler, scoreboardHandler, adminHandler, imageHandler, cfg.JWTSecret)

	server := &http.Server{
		Addr:         cfg.BindAddress + ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting pubquiz server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
