package loaders

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains the request-scoped dataloaders
type Loaders struct {
	BusinessLoader *dataloader.Loader[string, *entities.Business]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(businessRepo repositories.BusinessRepository) *Loaders {
	return &Loaders{
		BusinessLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Business] {
			results := make([]*dataloader.Result[*entities.Business], len(keys))
			businesses, err := businessRepo.GetByIDs(ctx, keys)

			businessMap := make(map[string]*entities.Business)
			if err == nil {
				for _, b := range businesses {
					businessMap[b.ID] = b
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.Business]{Error: err}
				} else if b, ok := businessMap[key]; ok {
					results[i] = &dataloader.Result[*entities.Business]{Data: b}
				} else {
					results[i] = &dataloader.Result[*entities.Business]{
						Error: apperrors.NewNotFoundError(fmt.Sprintf("business %s not found", key)),
					}
				}
			}
			return results
		}),
	}
}

// LoadBusinesses resolves ids in one batch, keeping input order and skipping
// businesses that no longer exist. Any other failure is returned.
func (l *Loaders) LoadBusinesses(ctx context.Context, ids []string) ([]*entities.Business, error) {
	thunks := make([]dataloader.Thunk[*entities.Business], len(ids))
	for i, id := range ids {
		thunks[i] = l.BusinessLoader.Load(ctx, id)
	}

	businesses := make([]*entities.Business, 0, len(ids))
	for _, thunk := range thunks {
		b, err := thunk()
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, nil
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}
