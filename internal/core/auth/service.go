package auth

import (
	"errors"
	"fmt"

	"github.com/goodwinhq/household-staff-be/internal/models"
	"github.com/goodwinhq/household-staff-be/internal/repositories"
	"github.com/goodwinhq/household-staff-be/internal/shared/utils"
)

// Service provisions identities and issues tokens. New accounts receive the
// one-time initial credit grant when the user row is created; logins never
// re-grant.
type Service struct {
	repo       repositories.UserRepo
	jwtService *JWTService
}

// NewService creates a new auth service
func NewService(repo repositories.UserRepo, jwtSecret string) *Service {
	return &Service{
		repo:       repo,
		jwtService: NewJWTService(jwtSecret),
	}
}

// Register creates a new user account with the initial credit grant.
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	exists, err := s.repo.EmailExists(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already registered")
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:         req.Email,
		Name:          req.Name,
		PasswordHash:  passwordHash,
		OAuthProvider: "email",
		Credits:       models.InitialCreditGrant,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	utils.LogInfo("user registered", map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})

	return s.generateAuthResponse(user)
}

// Login authenticates user with email and password
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid email or password")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	_ = s.repo.UpdateLastLogin(user.ID.String())

	return s.generateAuthResponse(user)
}

// LoginWithGoogle authenticates a user from verified Google identity
// information, creating the account on first login. The credit grant happens
// only on that first creation.
func (s *Service) LoginWithGoogle(info *GoogleUserInfo) (*AuthResponse, error) {
	user, err := s.repo.GetByGoogleID(info.GoogleID)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if errors.Is(err, repositories.ErrUserNotFound) {
		user = &models.User{
			Email:         info.Email,
			Name:          info.Name,
			GoogleID:      &info.GoogleID,
			AvatarURL:     info.AvatarURL,
			OAuthProvider: "google",
			Credits:       models.InitialCreditGrant,
		}

		if err := s.repo.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		utils.LogInfo("new google user registered", map[string]interface{}{
			"user_id": user.ID.String(),
			"email":   user.Email,
		})
	}

	_ = s.repo.UpdateLastLogin(user.ID.String())

	return s.generateAuthResponse(user)
}

// RefreshToken generates new access token from refresh token
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.repo.GetByRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token not found or expired")
	}

	if user.ID.String() != userID {
		return nil, fmt.Errorf("refresh token user mismatch")
	}

	return s.generateAuthResponse(user)
}

// Logout revokes user's refresh token
func (s *Service) Logout(userID string) error {
	if err := s.repo.RevokeRefreshToken(userID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ValidateToken validates an access token and returns user info
func (s *Service) ValidateToken(accessToken string) (*TokenClaims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	return claims, nil
}

// generateAuthResponse generates auth response with tokens and user info
func (s *Service) generateAuthResponse(user *models.User) (*AuthResponse, error) {
	claims := &TokenClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
	}

	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, expiresAt, err := s.jwtService.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.repo.UpdateRefreshToken(user.ID.String(), refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User: &UserInfo{
			ID:            user.ID.String(),
			Email:         user.Email,
			Name:          user.Name,
			AvatarURL:     user.AvatarURL,
			OAuthProvider: user.OAuthProvider,
			Credits:       user.Credits,
		},
	}, nil
}
