package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	clock      Clock
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, clock Clock) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		clock:      clock,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Name string
	PIN  string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates an operator that is valid now
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetActiveByName(ctx, input.Name, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPINHash(input.PIN, user.PINHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RefreshToken issues new tokens while the operator's version is still valid
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.activeUser(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// GetCurrentUser returns the operator with the given ID if still valid
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.activeUser(ctx, userID, s.clock.Now())
}

func (s *AuthService) activeUser(ctx context.Context, userID uuid.UUID, at time.Time) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActiveAt(at) {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Name, user.Role.String())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
