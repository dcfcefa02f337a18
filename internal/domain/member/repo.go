package member

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("member not found")

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id int64) (*Member, error)
	Update(ctx context.Context, m *Member) error
	// Delete soft-deletes the member; the row survives for claim history.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Member, int, error)
}
