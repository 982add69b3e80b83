package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// ProvisionOwnerUseCase adds the owner or rotates their password. The owner
// id is kept across rotations so issued tokens stay attributable.
type ProvisionOwnerUseCase struct {
	userRepo user.Repository
	logger   logger.Logger
}

func NewProvisionOwnerUseCase(repo user.Repository, log logger.Logger) *ProvisionOwnerUseCase {
	return &ProvisionOwnerUseCase{userRepo: repo, logger: log}
}

func (uc *ProvisionOwnerUseCase) Execute(ctx context.Context, email, password string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.NewInvalidInput("email and password are required", nil)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperror.NewInternal("cannot hash password", err)
	}

	u, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		u = &user.User{ID: uuid.New(), Email: email}
	case err != nil:
		return nil, apperror.NewInternal("failed to load owner", err)
	}
	u.PasswordHash = hash

	if err := uc.userRepo.Save(ctx, u); err != nil {
		return nil, apperror.NewInternal("failed to save owner", err)
	}

	uc.logger.Info("Owner provisioned", zap.String("email", email), zap.String("user_id", u.ID.String()))
	return u, nil
}
