package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-api/internal/config"
	"github.com/yourusername/quiz-api/internal/handler"
	"github.com/yourusername/quiz-api/internal/middleware"
	pgRepo "github.com/yourusername/quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quiz-api/internal/repository/redis"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/internal/service/session"
	ws "github.com/yourusername/quiz-api/internal/websocket"
	"github.com/yourusername/quiz-api/pkg/auth"
	"github.com/yourusername/quiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	scoreRepo := pgRepo.NewScoreRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Запускаем WebSocket хаб
	wsHub := ws.NewHub()
	go wsHub.Run()

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	quizService := service.NewQuizService(quizRepo, questionRepo)
	leaderboardService := service.NewLeaderboardService(
		scoreRepo,
		cacheRepo,
		cfg.Quiz.LeaderboardLimit,
		cfg.Quiz.ExcludedUsername,
		time.Duration(cfg.Quiz.LeaderboardCacheSec)*time.Second,
	)
	scoreService := service.NewScoreService(scoreRepo, quizRepo, userRepo, leaderboardService, wsHub)

	sessionManager := session.NewManager(quizRepo, scoreService, scoreService, session.Config{
		CountdownSeconds: cfg.Quiz.CountdownSeconds,
		Tick:             time.Second,
	})

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	quizHandler := handler.NewQuizHandler(quizService, scoreService)
	scoreHandler := handler.NewScoreHandler(scoreService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	sessionHandler := handler.NewSessionHandler(sessionManager)
	wsHandler := handler.NewWSHandler(wsHub, jwtService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	authRateLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Статические файлы админ-панели
	router.StaticFS("/admin", http.Dir("./static/admin"))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authRateLimit, authHandler.Register)
			authGroup.POST("/login", authRateLimit, authHandler.Login)
		}

		// Викторины
		quizGroup := api.Group("/quizzes")
		{
			quizGroup.GET("", authMiddleware.OptionalAuth(), quizHandler.ListQuizzes)

			quizByID := quizGroup.Group("/:id")
			quizByID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizByID.GET("", quizHandler.GetQuiz)
				quizByID.GET("/questions", authMiddleware.RequireAuth(), quizHandler.GetQuizQuestions)
			}

			// Администрирование викторин
			adminQuiz := quizGroup.Group("")
			adminQuiz.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminQuiz.POST("", quizHandler.CreateQuiz)
				adminQuiz.POST("/:id/questions",
					middleware.ExtractUintParam("id", "quizID"), quizHandler.AddQuestion)
				adminQuiz.DELETE("/:id",
					middleware.ExtractUintParam("id", "quizID"), quizHandler.DeleteQuiz)
			}
		}

		// Игровые сессии
		sessionGroup := api.Group("/sessions")
		sessionGroup.Use(authMiddleware.RequireAuth())
		{
			sessionGroup.POST("", sessionHandler.Start)
			sessionGroup.GET("/current", sessionHandler.Current)
			sessionGroup.POST("/answer", sessionHandler.Answer)
			sessionGroup.POST("/next", sessionHandler.Next)
			sessionGroup.DELETE("/current", sessionHandler.Cancel)
		}

		// Результаты
		scoreGroup := api.Group("/scores")
		scoreGroup.Use(authMiddleware.RequireAuth())
		{
			scoreGroup.POST("", scoreHandler.SubmitScore)
			scoreGroup.GET("/taken", scoreHandler.GetTakenQuizzes)
			scoreGroup.GET("/user/:userId",
				middleware.ExtractUintParam("userId", "targetUserID"), scoreHandler.GetUserScores)
		}

		// Лидерборды
		leaderboardGroup := api.Group("/leaderboard")
		{
			leaderboardGroup.GET("", leaderboardHandler.GetGlobal)
			leaderboardGroup.GET("/export",
				authMiddleware.RequireAuth(), authMiddleware.AdminOnly(), leaderboardHandler.ExportGlobal)
			leaderboardGroup.GET("/:id",
				middleware.ExtractUintParam("id", "quizID"), leaderboardHandler.GetByQuiz)
		}
	}

	// WebSocket
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем отсчеты активных сессий
	sessionManager.Shutdown()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
