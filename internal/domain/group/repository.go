package group

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("customer group not found")

type Repository interface {
	FindByID(ctx context.Context, groupID int64) (*Group, error)

	FindAll(ctx context.Context) ([]*Group, error)

	// ExistingIDs returns the subset of groupIDs that exist in storage, in
	// undefined order. Callers compare against the input to spot unknown IDs.
	ExistingIDs(ctx context.Context, groupIDs []int64) ([]int64, error)
}
