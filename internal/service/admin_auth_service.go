package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/repository"
	"github.com/GTDGit/ministore_api/internal/utils"
)

type AdminAuthService struct {
	adminRepo *repository.AdminUserRepository
	signer    *utils.JWTSigner
}

func NewAdminAuthService(adminRepo *repository.AdminUserRepository, signer *utils.JWTSigner) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo, signer: signer}
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned to the dashboard after a successful login.
type LoginResult struct {
	Token string            `json:"token"`
	User  *models.AdminUser `json:"user"`
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		log.Warn().Str("email", email).Msg("Login for unknown email")
		return nil, utils.ErrInvalidLogin
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return nil, utils.ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidLogin
	}

	token, err := s.signer.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("Failed to record last login")
	}

	log.Info().Str("email", email).Msg("Login successful")
	return &LoginResult{Token: token, User: user}, nil
}

// EnsureAdmin creates the operator account unless the email is already taken.
func (s *AdminAuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}

	if err := s.adminRepo.Create(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	log.Info().Str("email", user.Email).Msg("Admin user created")
	return nil
}
