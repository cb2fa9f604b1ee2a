package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
)

// AccountService handles rider registration and login.
type AccountService struct {
	riderRepo repository.RiderRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(riderRepo repository.RiderRepository) *AccountService {
	return &AccountService{riderRepo: riderRepo}
}

// RegisterRequest contains the parameters for registering a rider.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Register creates a new rider account with an empty wallet.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.Rider, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingField
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	rider := &domain.Rider{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleRider,
		BalanceCents: 0,
		CreatedAt:    time.Now(),
	}

	if err := s.riderRepo.Create(ctx, rider); err != nil {
		return nil, err
	}

	return rider, nil
}

// Login verifies a rider's credentials and returns the account.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.Rider, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	rider, err := s.riderRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rider.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return rider, nil
}

// GetRider retrieves a rider by ID.
func (s *AccountService) GetRider(ctx context.Context, riderID string) (*domain.Rider, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	return s.riderRepo.GetByID(ctx, riderID)
}
