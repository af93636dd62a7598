package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// AuthConfig holds token signing settings and the admin credentials
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	Issuer        string
	AdminUsername string
	AdminPassword string
}

// Claims are the JWT claims issued at login
type Claims struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	config    AuthConfig
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewAuthService(repo repositories.Repository, config AuthConfig, logger *slog.Logger, validator *validator.Validator) AuthService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaultTokenTTL
	}
	return &authService{
		repo:      repo,
		config:    config,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationErrors(errs)
	}

	if s.isAdmin(req.Username, req.Password) {
		s.logger.Info("Admin logged in", "username", req.Username)
		return s.issue(models.AdminUserID, req.Username, models.RoleAdmin)
	}

	student, err := s.repo.Student().GetByUsername(ctx, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(req.Password)); err != nil {
		s.logger.Warn("Failed login attempt", "username", req.Username)
		return nil, ErrUnauthorized
	}

	s.logger.Info("Student logged in", "student_id", student.ID)
	return s.issue(student.ID, student.Username, student.Role)
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrUnauthorized, claims.Role)
	}
	return claims, nil
}

func (s *authService) isAdmin(username, password string) bool {
	if s.config.AdminUsername == "" || s.config.AdminPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.AdminPassword)) == 1
	return userOK && passOK
}

func (s *authService) issue(userID uint, username string, role models.UserRole) (*models.LoginResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.config.TokenTTL)

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{
		ID:        userID,
		Username:  username,
		Role:      role,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// HashPassword hashes a plaintext password with bcrypt's default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", NewValidationError("password", "is too long", nil)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
