package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"devblog/internal/cache"
	apperrors "devblog/internal/errors"
	"devblog/internal/model"
	"devblog/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserInput is the dashboard user form. Password is only used on create.
type UserInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

// UserService manages accounts from the dashboard.
type UserService interface {
	CreateUser(ctx context.Context, in UserInput) (*model.Account, error)
	UpdateUser(ctx context.Context, id uint, in UserInput) (*model.Account, error)
	GetUser(ctx context.Context, id uint) (*model.Account, error)
	ListUsers(ctx context.Context) ([]model.Account, error)
	// DeactivateUser is the dashboard "delete": accounts are never removed.
	DeactivateUser(ctx context.Context, id uint) error
}

type userService struct {
	repo   repository.AccountRepository
	emails *EmailValidator
	cache  *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.AccountRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, emails: NewEmailValidator(repo), cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// duplicateIdentity resolves a unique-index violation on accounts, raised when a
// concurrent write slipped past checkIdentity, to the matching duplicate error.
func duplicateIdentity(ctx context.Context, repo repository.AccountRepository, email string, excludeID uint) error {
	if taken, err := repo.EmailExists(ctx, email, excludeID); err == nil && taken {
		return apperrors.ErrDuplicateEmail
	}
	return apperrors.ErrDuplicateUsername
}

// checkIdentity validates email and username, excluding the edited account.
func (s *userService) checkIdentity(ctx context.Context, in UserInput, excludeID uint) (string, string, error) {
	email, err := s.emails.Validate(ctx, in.Email, excludeID)
	if err != nil {
		return "", "", err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return "", "", apperrors.ErrUsernameRequired
	}
	taken, err := s.repo.UsernameExists(ctx, username, excludeID)
	if err != nil {
		return "", "", fmt.Errorf("check username: %w", err)
	}
	if taken {
		return "", "", apperrors.ErrDuplicateUsername
	}
	return email, username, nil
}

func (s *userService) CreateUser(ctx context.Context, in UserInput) (*model.Account, error) {
	email, username, err := s.checkIdentity(ctx, in, 0)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password, in.Password); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     in.IsActive,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateIdentity(ctx, s.repo, email, 0)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(account.ID))
	return account, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, in UserInput) (*model.Account, error) {
	account, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	email, username, err := s.checkIdentity(ctx, in, id)
	if err != nil {
		return nil, err
	}

	account.Username = username
	account.Email = email
	account.FirstName = in.FirstName
	account.LastName = in.LastName
	account.IsActive = in.IsActive
	account.IsStaff = in.IsStaff
	account.IsSuperuser = in.IsSuperuser
	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateIdentity(ctx, s.repo, email, id)
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	// author names appear on the homepage
	invalidateHome(ctx, s.cache)
	return account, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.Account, error) {
	var cached model.Account
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	account, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), account, userCacheTTL)
	return account, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.Account, error) {
	return s.repo.List(ctx)
}

func (s *userService) DeactivateUser(ctx context.Context, id uint) error {
	account, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil
	}
	account.IsActive = false
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *userService) find(ctx context.Context, id uint) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}
