package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/uptrace/bun"
)

// Store persists records of every resource in one table.
type Store struct {
	db     *bun.DB
	logger interfaces.Logger
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		s.logger = logging.Ensure(logger)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wraps db.
func NewStore(db *bun.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrDBRequired
	}
	s := &Store{db: db, logger: logging.NoOp(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Migrate creates the records table and its resource index.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*Row)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("records: create table: %w", err)
	}
	_, err := s.db.NewCreateIndex().
		Model((*Row)(nil)).
		Index("admin_records_resource_idx").
		IfNotExists().
		Column("resource").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("records: create index: %w", err)
	}
	return nil
}

// List returns every record of resource in insertion order.
func (s *Store) List(ctx context.Context, resource string) ([]map[string]any, error) {
	resource, err := normalizeResource(resource)
	if err != nil {
		return nil, err
	}
	var rows []Row
	err = s.db.NewSelect().
		Model(&rows).
		Where("?TableAlias.resource = ?", resource).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("records: list %s: %w", resource, err)
	}
	out := make([]map[string]any, len(rows))
	for i := range rows {
		out[i] = rows[i].Fields()
	}
	return out, nil
}

// Count returns the number of records of resource.
func (s *Store) Count(ctx context.Context, resource string) (int, error) {
	resource, err := normalizeResource(resource)
	if err != nil {
		return 0, err
	}
	count, err := s.db.NewSelect().Model((*Row)(nil)).Where("?TableAlias.resource = ?", resource).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("records: count %s: %w", resource, err)
	}
	return count, nil
}

// Get returns one record.
func (s *Store) Get(ctx context.Context, resource string, id int64) (map[string]any, error) {
	row, err := s.get(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	return row.Fields(), nil
}

func (s *Store) get(ctx context.Context, resource string, id int64) (*Row, error) {
	resource, err := normalizeResource(resource)
	if err != nil {
		return nil, err
	}
	row := new(Row)
	err = s.db.NewSelect().
		Model(row).
		Where("?TableAlias.resource = ?", resource).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: resource, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("records: get %s/%d: %w", resource, id, err)
	}
	return row, nil
}

// Create stores a new record and returns it with its id.
func (s *Store) Create(ctx context.Context, resource string, fields map[string]any) (map[string]any, error) {
	resource, err := normalizeResource(resource)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	row := &Row{Resource: resource, Data: sanitize(fields), CreatedAt: now, UpdatedAt: now}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("records: create %s: %w", resource, err)
	}
	s.logger.Debug("records.create", "resource", resource, "record_id", row.ID)
	return row.Fields(), nil
}

// Update merges fields into an existing record.
func (s *Store) Update(ctx context.Context, resource string, id int64, fields map[string]any) (map[string]any, error) {
	row, err := s.get(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	if row.Data == nil {
		row.Data = map[string]any{}
	}
	for k, v := range sanitize(fields) {
		row.Data[k] = v
	}
	row.UpdatedAt = s.now().UTC()
	_, err = s.db.NewUpdate().
		Model(row).
		Column("data", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("records: update %s/%d: %w", row.Resource, id, err)
	}
	s.logger.Debug("records.update", "resource", row.Resource, "record_id", id)
	return row.Fields(), nil
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, resource string, id int64) error {
	resource, err := normalizeResource(resource)
	if err != nil {
		return err
	}
	res, err := s.db.NewDelete().
		Model((*Row)(nil)).
		Where("resource = ?", resource).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("records: delete %s/%d: %w", resource, id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Resource: resource, ID: id}
	}
	s.logger.Debug("records.delete", "resource", resource, "record_id", id)
	return nil
}

// Seed inserts seeds when resource has no records yet and reports how many
// were written.
func (s *Store) Seed(ctx context.Context, resource string, seeds []map[string]any) (int, error) {
	count, err := s.Count(ctx, resource)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	written := 0
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := s.now().UTC()
		for _, seed := range seeds {
			row := &Row{Resource: strings.TrimSpace(resource), Data: sanitize(seed), CreatedAt: now, UpdatedAt: now}
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("records: seed %s: %w", resource, err)
	}
	s.logger.Info("records.seeded", "resource", resource, "count", written)
	return written, nil
}

func normalizeResource(resource string) (string, error) {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return "", ErrResourceRequired
	}
	return resource, nil
}

// sanitize drops the identity column so callers cannot overwrite it.
func sanitize(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}
