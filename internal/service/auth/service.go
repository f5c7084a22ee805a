package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"

	"edulegal/internal/config"
	"edulegal/internal/domain"
	"edulegal/internal/pkg/validate"
	"edulegal/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSecretMissing      = errors.New("token secret is not configured")
	ErrMissingUserID      = errors.New("user id is required to issue a token")
)

type Service interface {
	Register(ctx context.Context, input domain.CreateUserInput, actor *domain.User) (*domain.User, string, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.User, string, error)
	IssueToken(userID uuid.UUID, role domain.Role) (string, error)
	ValidateToken(token string) (*Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Claims struct {
	UserID uuid.UUID   `json:"userId"`
	Role   domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) Service {
	return &service{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Register creates a guest account. A requested role is only honored when an
// admin is registering the user, or in demo mode.
func (s *service) Register(ctx context.Context, input domain.CreateUserInput, actor *domain.User) (*domain.User, string, error) {
	if err := validate.Struct(input); err != nil {
		return nil, "", err
	}

	email := domain.NormalizeEmail(input.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to check email", goerr.V("email", email))
	}
	if exists {
		return nil, "", ErrEmailExists
	}

	role := domain.RoleGuest
	if input.Role != "" && (s.cfg.DemoMode || (actor != nil && actor.Role == domain.RoleAdmin)) {
		parsed, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, "", ErrInvalidRole
		}
		role = parsed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Preferences:  domain.DefaultPreferences(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup can still win the race past ExistsByEmail.
		if repository.IsUniqueViolation(err) {
			return nil, "", ErrEmailExists
		}
		return nil, "", goerr.Wrap(err, "failed to create user", goerr.V("email", email))
	}

	token, err := s.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.User, string, error) {
	if err := validate.Struct(input); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to load user")
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *service) IssueToken(userID uuid.UUID, role domain.Role) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", ErrSecretMissing
	}
	if userID == uuid.Nil {
		return "", ErrMissingUserID
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry. Expired and malformed tokens
// produce the same error; only the log line tells them apart.
func (s *service) ValidateToken(tokenString string) (*Claims, error) {
	if s.cfg.JWTSecret == "" {
		return nil, ErrSecretMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			slog.Debug("rejected expired token")
		} else {
			slog.Debug("rejected invalid token", "error", err)
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
