package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

// documentUserRepo keeps the owner as the named document users/<email>, so it
// lives in whichever record store the content uses.
type documentUserRepo struct {
	store content.Store
}

func NewDocumentUserRepo(store content.Store) user.Repository {
	return &documentUserRepo{store: store}
}

func (r *documentUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	doc, err := r.store.GetDocument(ctx, content.CollectionUsers, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("error when query user: %w", err)
	}

	idStr, _ := doc.Data["id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("user %s has invalid id: %w", doc.ID, err)
	}
	hash, _ := doc.Data["passwordHash"].(string)
	storedEmail, _ := doc.Data["email"].(string)

	return &user.User{ID: id, Email: storedEmail, PasswordHash: hash}, nil
}

func (r *documentUserRepo) Save(ctx context.Context, u *user.User) error {
	email := user.NormalizeEmail(u.Email)
	record := content.Record{
		"id":           u.ID.String(),
		"email":        email,
		"passwordHash": u.PasswordHash,
	}
	if err := r.store.PutNamedDocument(ctx, content.CollectionUsers+"/"+email, record); err != nil {
		return fmt.Errorf("error when save user: %w", err)
	}
	return nil
}
