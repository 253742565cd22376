package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Rondas-api/internal/application/auth"
	appcapture "github.com/jhoicas/Rondas-api/internal/application/capture"
	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
	"github.com/jhoicas/Rondas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Rondas-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Rondas-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Rondas-api/internal/interfaces/http"
	"github.com/jhoicas/Rondas-api/pkg/config"
	"github.com/jhoicas/Rondas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stopRetention := context.WithCancel(context.Background())
	defer stopRetention()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	roundRepo := postgres.NewRoundRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Store de sesiones de captura: Redis si hay dirección configurada,
	// memoria en nodo único / development.
	sessionTTL := time.Duration(cfg.Capture.SessionTTLMinutes) * time.Minute
	var sessions appcapture.SessionStore
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		sessions = infraredis.NewSessionStore(client, sessionTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sesiones de captura en Redis")
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
		log.Info().Msg("sesiones de captura en memoria")
	}

	authUC := auth.NewAuthUseCase(userRepo, roleRepo, auditRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	captureUC := appcapture.NewUseCase(sessions, roundRepo, log)
	roundUC := usecase.NewRoundUseCase(roundRepo)
	roleUC := usecase.NewRoleUseCase(roleRepo, auditRepo, txRunner, log)

	// Barrido de retención: rondas más viejas que la ventana configurada se
	// eliminan periódicamente.
	retentionUC := usecase.NewRetentionUseCase(roundRepo, log, cfg.Retention.Days, cfg.Retention.IntervalMinutes)
	go retentionUC.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		// La foto viaja en multipart; margen sobre el límite de 10MB.
		BodyLimit: int(domcapture.MaxPhotoBytes) + 2<<20,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Rondas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CaptureUC: captureUC,
		RoundUC:   roundUC,
		RoleUC:    roleUC,
		Capture:   cfg.Capture,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopRetention()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
