package user

import (
	"context"
	"fmt"
	"time"

	userRepo "carhive/database/repository/user"
	"carhive/models"
	"carhive/utils"

	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the signup payload for drivers and suppliers.
type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	Type        string `json:"type"`
	Language    string `json:"language"`
	EnableEmail bool   `json:"enableEmailNotifications"`
}

// UserService manages platform accounts.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateFCMToken(ctx context.Context, id, token string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, utils.ValidationError{Msg: "email and password are required"}
	}
	switch req.Type {
	case models.UserTypeDriver, models.UserTypeSupplier, models.UserTypeAdmin:
	default:
		return nil, utils.ValidationError{Msg: fmt.Sprintf("unknown user type %q", req.Type)}
	}

	existing, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.PersistenceError{Op: "user lookup", Err: err}
	}
	if existing != nil {
		return nil, utils.ValidationError{Msg: "email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Type:         req.Type,
		Language:     req.Language,
		EnableEmail:  req.EnableEmail,
	}
	id, err := s.Repo.Create(ctx, u)
	if err != nil {
		return nil, utils.PersistenceError{Op: "user create", Err: err}
	}
	u.ID = id
	return &u, nil
}

// Authenticate verifies credentials and returns the user with a signed JWT.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", utils.PersistenceError{Op: "user lookup", Err: err}
	}
	if u == nil {
		return nil, "", utils.NotFoundError{Resource: "user", ID: email}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", utils.ValidationError{Msg: "invalid credentials"}
	}

	token, err := utils.GenerateToken(u.ID, u.Email, 24*time.Hour)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return u, token, nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.PersistenceError{Op: "user read", Err: err}
	}
	if u == nil {
		return nil, utils.NotFoundError{Resource: "user", ID: id}
	}
	return u, nil
}

func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, id, token string) error {
	if err := s.Repo.SetFCMToken(ctx, id, token); err != nil {
		return utils.PersistenceError{Op: "fcm token update", Err: err}
	}
	return nil
}
