package changes

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type ListOptions struct {
	Table   *string
	TableID *int
	Action  *string
	Field   *string
	UserID  *int
	Since   *time.Time
	Limit   int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// List returns log rows newest first.
func (svc *Service) List(ctx context.Context, opts ListOptions) ([]*models.Log, error) {
	var rows []*models.Log

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	q := svc.db.NewSelect().
		Model(&rows).
		Relation("User").
		Order("lg.date DESC", "lg.id DESC").
		Limit(limit)

	if opts.Table != nil {
		q = q.Where("lg.table_name = ?", *opts.Table)
	}
	if opts.TableID != nil {
		q = q.Where("lg.table_id = ?", *opts.TableID)
	}
	if opts.Action != nil {
		q = q.Where("lg.action = ?", *opts.Action)
	}
	if opts.Field != nil {
		q = q.Where("lg.field_name = ?", *opts.Field)
	}
	if opts.UserID != nil {
		q = q.Where("lg.user_id = ?", *opts.UserID)
	}
	if opts.Since != nil {
		q = q.Where("lg.date >= ?", *opts.Since)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return rows, nil
}

// ForObject returns the history of one object.
func (svc *Service) ForObject(ctx context.Context, table string, id int) ([]*models.Log, error) {
	return svc.List(ctx, ListOptions{Table: &table, TableID: &id, Limit: maxLimit})
}
