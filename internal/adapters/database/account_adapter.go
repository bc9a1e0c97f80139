package database

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

// AccountAdapter implements the AccountRepository interface over a document store
type AccountAdapter struct {
	store providers.DocumentStore
}

// NewAccountAdapter creates a new account adapter
func NewAccountAdapter(store providers.DocumentStore) repositories.AccountRepository {
	return &AccountAdapter{store: store}
}

// Create stores an account and sets its ID
func (a *AccountAdapter) Create(ctx context.Context, account *entities.Account) error {
	if account == nil {
		return apperrors.NewInternalError("account is nil", fmt.Errorf("account is nil"))
	}

	id, err := a.store.Insert(ctx, providers.CollectionAccounts, map[string]any{
		"email":        account.Email,
		"displayName":  account.DisplayName,
		"passwordHash": account.PasswordHash,
		"disabled":     account.Disabled,
		"createdAt":    providers.ServerTimestamp,
		"updatedAt":    providers.ServerTimestamp,
	})
	if err != nil {
		return err
	}
	account.ID = id
	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt
	return nil
}

// GetByID retrieves an account by ID
func (a *AccountAdapter) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	doc, err := a.store.Get(ctx, providers.CollectionAccounts, id)
	if err != nil {
		return nil, err
	}
	account, err := DecodeAccount(doc)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to decode account", err)
	}
	return account, nil
}

// GetByEmail retrieves an account by normalized email
func (a *AccountAdapter) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	docs, err := a.store.Query(ctx, providers.CollectionAccounts, "email", email)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account with email %s not found", email))
	}
	account, err := DecodeAccount(docs[0])
	if err != nil {
		return nil, apperrors.NewStoreError("failed to decode account", err)
	}
	return account, nil
}

// Update overwrites the mutable account fields
func (a *AccountAdapter) Update(ctx context.Context, account *entities.Account) error {
	account.UpdatedAt = time.Now().UTC()
	return a.store.Update(ctx, providers.CollectionAccounts, account.ID, map[string]any{
		"displayName":  account.DisplayName,
		"passwordHash": account.PasswordHash,
		"disabled":     account.Disabled,
		"updatedAt":    providers.ServerTimestamp,
	})
}
