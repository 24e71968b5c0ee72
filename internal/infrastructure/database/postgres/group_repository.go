package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"customer-engine/internal/domain/group"
	"customer-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type GroupRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ group.Repository = (*GroupRepository)(nil)

func NewGroupRepository(db DBPool, logger *slog.Logger) *GroupRepository {
	if db == nil {
		panic("DBPool cannot be nil for GroupRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewGroupRepository, using default stderr handler")
	}
	return &GroupRepository{
		db:     db,
		logger: logger.With("component", "GroupRepository"),
	}
}

func (r *GroupRepository) FindByID(ctx context.Context, groupID int64) (*group.Group, error) {
	r.logger.DebugContext(ctx, "Attempting to find group by ID", slog.Int64("groupID", groupID))

	query := `
        SELECT id, group_key, name, created_at
        FROM customer_groups
        WHERE id = $1`

	var grp group.Group
	err := r.db.QueryRow(ctx, query, groupID).Scan(
		&grp.GroupID,
		&grp.Key,
		&grp.Name,
		&grp.CreateDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Group not found")
			return nil, group.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan group by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get group by ID: %w", apperrors.ErrDatabase, err)
	}

	return &grp, nil
}

func (r *GroupRepository) FindAll(ctx context.Context) ([]*group.Group, error) {
	r.logger.DebugContext(ctx, "Attempting to find all groups")

	query := `
        SELECT id, group_key, name, created_at
        FROM customer_groups
        ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query groups", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query groups: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	groups := make([]*group.Group, 0)
	for rows.Next() {
		var grp group.Group
		if err := rows.Scan(&grp.GroupID, &grp.Key, &grp.Name, &grp.CreateDate); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan group row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan group row: %w", apperrors.ErrDatabase, err)
		}
		groups = append(groups, &grp)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating group rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating group rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished finding groups", slog.Int("count", len(groups)))
	return groups, nil
}

func (r *GroupRepository) ExistingIDs(ctx context.Context, groupIDs []int64) ([]int64, error) {
	if len(groupIDs) == 0 {
		return []int64{}, nil
	}

	r.logger.DebugContext(ctx, "Checking which group IDs exist", slog.Int("count", len(groupIDs)))

	query := `SELECT id FROM customer_groups WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, groupIDs)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query group IDs", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query group IDs: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	existing := make([]int64, 0, len(groupIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan group ID row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning group ID: %w", apperrors.ErrDatabase, err)
		}
		existing = append(existing, id)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating group ID rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating group IDs: %w", apperrors.ErrDatabase, err)
	}

	return existing, nil
}
