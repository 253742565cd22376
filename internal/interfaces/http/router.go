package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rondas-api/internal/application/auth"
	appcapture "github.com/jhoicas/Rondas-api/internal/application/capture"
	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	"github.com/jhoicas/Rondas-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CaptureUC *appcapture.UseCase
	RoundUC   *usecase.RoundUseCase
	RoleUC    *usecase.RoleUseCase
	Capture   config.CaptureConfig
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Captura (protegido; cualquier rol autenticado ejecuta rondas)
	capture := protected.Group("/capture")
	captureHandler := NewCaptureHandler(deps.CaptureUC, deps.RoleUC, deps.Capture)
	capture.Get("/state", captureHandler.State)
	capture.Get("/limits", captureHandler.Limits)
	capture.Post("/scan", captureHandler.ScanCorner)
	capture.Post("/corner", captureHandler.SelectCorner)
	capture.Post("/fields", captureHandler.SetFields)
	capture.Post("/photo", captureHandler.AttachPhoto)
	capture.Post("/submit", captureHandler.Submit)
	capture.Delete("/", captureHandler.Cancel)

	// Rondas (protegido; visibilidad fila a fila en el caso de uso)
	rounds := protected.Group("/rounds")
	roundHandler := NewRoundHandler(deps.RoundUC, deps.RoleUC)
	rounds.Get("/", roundHandler.List)
	rounds.Get("/:id", roundHandler.Get)
	rounds.Get("/:id/photo", roundHandler.Photo)
	rounds.Put("/:id", roundHandler.Update)
	rounds.Delete("/:id", roundHandler.Delete)

	// Roles (protegido; las mutaciones exigen claim admin además del chequeo
	// contra el rol persistido dentro del caso de uso)
	roles := protected.Group("/roles")
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Get("/me", roleHandler.Me)
	adminOnly := RequireRole(string(authz.RoleAdmin))
	roles.Put("/:id", adminOnly, roleHandler.Change)
	roles.Delete("/:id", adminOnly, roleHandler.Remove)

	// Bitácora (protegido, solo admin)
	auditHandler := NewAuditHandler(deps.RoleUC)
	protected.Get("/audit", adminOnly, auditHandler.List)
}
