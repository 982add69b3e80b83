package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// User is the single site owner allowed into the admin API.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}
