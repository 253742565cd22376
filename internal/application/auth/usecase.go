package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
	"github.com/jhoicas/Rondas-api/pkg/jwt"
	"github.com/jhoicas/Rondas-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditRepository
	jwtCfg    JWTConfig
	log       *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditRepository,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, roleRepo: roleRepo, auditRepo: auditRepo, jwtCfg: jwtCfg, log: log}
}

// RegisterUser crea una identidad: hashea password con bcrypt, persiste y le
// asigna el rol por defecto security_guard. Si la asignación de rol falla, el
// fallo se registra y se traga: nunca bloquea la creación de la identidad.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	uc.assignDefaultRole(user.ID, now)

	return uc.toUserResponse(user), nil
}

// assignDefaultRole crea la fila de rol security_guard para una identidad
// recién creada, con su entrada de bitácora. Best-effort: log y seguir.
func (uc *AuthUseCase) assignDefaultRole(userID string, now time.Time) {
	existing, err := uc.roleRepo.Get(userID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo consultar rol al registrar")
		return
	}
	if existing != nil {
		return
	}
	assignment := &entity.RoleAssignment{
		UserID:    userID,
		Role:      string(authz.RoleSecurityGuard),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.roleRepo.Create(assignment); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo asignar rol por defecto")
		return
	}
	entry := &entity.AuditEntry{
		ID:        uuid.New().String(),
		ActorID:   userID,
		TargetID:  userID,
		NewRole:   string(authz.RoleSecurityGuard),
		Action:    entity.AuditActionCreate,
		CreatedAt: now,
	}
	if err := uc.auditRepo.Create(entry); err != nil {
		// La bitácora tampoco bloquea el alta; queda rastro en el log.
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo registrar bitácora de rol por defecto")
	}
}

// Login verifica email/password, resuelve el rol vigente desde la tabla de
// roles (no desde copias) y genera el JWT con ese rol.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	role := uc.currentRole(user.ID)
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	resp := uc.toUserResponse(user)
	resp.Role = string(role)
	return &dto.LoginResponse{
		Token: token,
		User:  *resp,
	}, nil
}

// currentRole función de derivación de rol: lectura plana de la asignación.
// Sin fila (o con valor corrupto) se asume security_guard, el rol de menor
// privilegio.
func (uc *AuthUseCase) currentRole(userID string) authz.Role {
	assignment, err := uc.roleRepo.Get(userID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo leer rol en login")
		return authz.RoleSecurityGuard
	}
	if assignment == nil {
		return authz.RoleSecurityGuard
	}
	role, err := authz.ParseRole(assignment.Role)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("rol persistido fuera del enum")
		return authz.RoleSecurityGuard
	}
	return role
}

func (uc *AuthUseCase) toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(authz.RoleSecurityGuard),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
