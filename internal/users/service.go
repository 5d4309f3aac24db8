package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artvia/artvia-backend/pkg/db/models"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
)

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes the gallery user directory.
type Service interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return users, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return models.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (models.User, error) {
	user := models.User{
		ID:      uuid.New(),
		Name:    input.Name,
		Gmail:   input.Gmail,
		Age:     input.Age,
		Address: input.Address,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return models.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Gmail != "" {
		user.Gmail = input.Gmail
	}
	if input.Age > 0 {
		user.Age = input.Age
	}
	if input.Address != "" {
		user.Address = input.Address
	}

	if err := s.repo.Save(ctx, &user); err != nil {
		return models.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}
