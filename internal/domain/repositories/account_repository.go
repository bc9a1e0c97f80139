package repositories

import (
	"context"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// AccountRepository defines the interface for identity account storage
type AccountRepository interface {
	// Create stores an account and sets its ID; CONFLICT when the email is taken
	Create(ctx context.Context, account *entities.Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*entities.Account, error)

	// GetByEmail retrieves an account by normalized email
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)

	// Update overwrites the mutable account fields
	Update(ctx context.Context, account *entities.Account) error
}
