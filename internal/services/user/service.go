package user

import (
	"errors"

	"gatepass/internal/models"
	"gatepass/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type Service interface {
	GetByID(id uint) (*models.User, error)
	Register(input RegisterInput) (*models.User, error)
	Update(user *models.User) error
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) Register(input RegisterInput) (*models.User, error) {
	if input.Email == "" {
		return nil, errors.New("email is required")
	}

	if existing, _ := s.repo.GetByEmail(input.Email); existing != nil {
		return nil, repositories.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	role := input.Role
	if role == "" {
		role = "customer"
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     role,
		Status:   "active",
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Update(user *models.User) error {
	return s.repo.Update(user)
}
