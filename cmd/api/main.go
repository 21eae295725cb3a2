package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"filevault/internal/config"
	"filevault/internal/database"
	"filevault/internal/domain"
	"filevault/internal/imaging"
	"filevault/internal/mailer"
	"filevault/internal/middleware"
	"filevault/internal/modules/auth"
	"filevault/internal/modules/resource"
	jwtsvc "filevault/internal/pkg/jwt"
	"filevault/internal/repository"
	"filevault/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zap.L().Fatal("database connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Resource{}); err != nil {
		zap.L().Fatal("migration failed", zap.Error(err))
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		zap.L().Fatal("storage init failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)

	j := jwtsvc.New(cfg.JWTSecret)

	authService := auth.NewService(
		userRepo,
		j,
		mailer.NewLogMailer(),
		cfg.AccessTTL,
		cfg.RefreshTTL,
		cfg.ResetTTL,
	)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:     cfg.CookieSecure,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})

	resourceService := resource.NewService(resourceRepo, store, imaging.NewOptimizer())
	resourceHandler := resource.NewHandler(resourceService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/hello", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello World"})
	})

	if local, ok := store.(*storage.Local); ok {
		r.Static(storage.URLPrefix, local.BaseDir())
	}

	authRequired := middleware.Auth(j, userRepo)
	v1 := r.Group("/v1")
	{
		authHandler.RegisterRoutes(v1, authRequired)
		resourceHandler.RegisterRoutes(v1, authRequired)
	}

	zap.L().Info("server starting", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageType))
	if err := r.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.IsProduction() {
		l, err := zap.NewProduction()
		if err != nil {
			log.Fatal(err)
		}
		return l
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	return l
}
