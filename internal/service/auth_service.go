package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devblog/internal/auth"
	apperrors "devblog/internal/errors"
	"devblog/internal/model"
	"devblog/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// TokenPair is what a successful login hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterInput is a self-service registration.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// AuthService handles authentication operations.
type AuthService interface {
	// Register creates the account and logs it in.
	Register(ctx context.Context, in RegisterInput) (*model.Account, *TokenPair, error)
	Login(ctx context.Context, username, password string) (*model.Account, *TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	// Logout drops the refresh token and, when access is non-nil, blacklists that access token.
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
}

type authService struct {
	accountRepo repository.AccountRepository
	emails      *EmailValidator
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(accountRepo repository.AccountRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		accountRepo: accountRepo,
		emails:      NewEmailValidator(accountRepo),
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// checkPassword enforces the minimum length and the confirmation match.
func checkPassword(password, confirm string) error {
	if len([]rune(password)) < minPasswordLength {
		return apperrors.ErrPasswordTooShort
	}
	if password != confirm {
		return apperrors.ErrPasswordMismatch
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Register validates the form, creates an active non-staff account and issues tokens.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.Account, *TokenPair, error) {
	email, err := s.emails.Validate(ctx, in.Email, 0)
	if err != nil {
		return nil, nil, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, nil, apperrors.ErrUsernameRequired
	}
	taken, err := s.accountRepo.UsernameExists(ctx, username, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, nil, apperrors.ErrDuplicateUsername
	}

	if err := checkPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	account := &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, duplicateIdentity(ctx, s.accountRepo, email, 0)
		}
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	tokens, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

// Login authenticates an active account and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (*model.Account, *TokenPair, error) {
	account, err := s.accountRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

func (s *authService) issueTokens(ctx context.Context, account *model.Account) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(account)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, account.ID, account.Username, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
// Claims are rebuilt from the current account so staff changes take effect.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedUsername, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedUsername != claims.Username {
		return "", ErrInvalidRefreshToken
	}

	account, err := s.accountRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find account: %w", err)
	}
	if !account.IsActive {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(account)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token and the access token presented with it.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	refresh, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, refresh.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if access.IsAccess() && access.ID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, auth.RemainingTTL(access)); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}
