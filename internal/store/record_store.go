// Package store adapts the records table to the summary engine. Every query is
// scoped to one owner and one record kind.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/pagination"
	"ledger/internal/summary"
)

// RecordStore reads and writes records of a single kind.
type RecordStore interface {
	Kind() summary.Kind
	FindByOwnerAndFilter(ctx context.Context, filter summary.Filter, sort Sort, limit int) ([]summary.Record, error)
	FindAllByOwner(ctx context.Context, owner string) ([]summary.Record, error)
	List(ctx context.Context, filter summary.Filter, sort Sort, page pagination.PageRequest) ([]models.Record, int64, error)
	Count(ctx context.Context, filter summary.Filter) (int64, error)
	GetByID(ctx context.Context, owner, id string) (*models.Record, error)
	Create(ctx context.Context, record *models.Record) error
	Update(ctx context.Context, record *models.Record) error
	Delete(ctx context.Context, owner, id string) error
}

type recordStore struct {
	db   *gorm.DB
	kind summary.Kind
}

// NewRecordStore returns a RecordStore for kind backed by db.
// It panics on an unknown kind.
func NewRecordStore(db *gorm.DB, kind summary.Kind) RecordStore {
	if !kind.Valid() {
		panic("store: unknown record kind " + string(kind))
	}
	return &recordStore{db: db, kind: kind}
}

func (s *recordStore) Kind() summary.Kind { return s.kind }

func (s *recordStore) scoped(ctx context.Context, owner string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Record{}).
		Where("user_id = ? AND kind = ?", owner, s.kind)
}

// applyFilter translates a summary.Filter into SQL conditions. Bounds are
// compared in UTC, the zone every stored date is written in.
func applyFilter(q *gorm.DB, f summary.Filter) *gorm.DB {
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Start != nil {
		q = q.Where("date >= ?", f.Start.UTC())
	}
	if f.End != nil {
		q = q.Where("date <= ?", f.End.UTC())
	}
	return q
}

// FindByOwnerAndFilter returns the filter-scoped records, ordered by sort.
// A limit <= 0 returns every match.
func (s *recordStore) FindByOwnerAndFilter(ctx context.Context, filter summary.Filter, sort Sort, limit int) ([]summary.Record, error) {
	q := applyFilter(s.scoped(ctx, filter.Owner), filter).Order(clause.OrderBy{Columns: sort.clauses()})
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.Record
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return models.ToSummaryRecords(rows), nil
}

// FindAllByOwner returns every record of the owner, newest first.
func (s *recordStore) FindAllByOwner(ctx context.Context, owner string) ([]summary.Record, error) {
	return s.FindByOwnerAndFilter(ctx, summary.Filter{Owner: owner}, DefaultSort, 0)
}

func (s *recordStore) List(ctx context.Context, filter summary.Filter, sort Sort, page pagination.PageRequest) ([]models.Record, int64, error) {
	page.Defaults()
	base := applyFilter(s.scoped(ctx, filter.Owner), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []models.Record
	if err := base.Scopes(pagination.Paginate(page)).
		Order(clause.OrderBy{Columns: sort.clauses()}).
		Find(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, total, nil
}

func (s *recordStore) Count(ctx context.Context, filter summary.Filter) (int64, error) {
	var total int64
	if err := applyFilter(s.scoped(ctx, filter.Owner), filter).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

func (s *recordStore) GetByID(ctx context.Context, owner, id string) (*models.Record, error) {
	var record models.Record
	if err := s.scoped(ctx, owner).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

func (s *recordStore) Create(ctx context.Context, record *models.Record) error {
	record.Kind = s.kind
	record.Date = record.Date.UTC()
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Update saves the editable columns of an existing record. The owner, kind
// and id are never changed.
func (s *recordStore) Update(ctx context.Context, record *models.Record) error {
	record.Date = record.Date.UTC()
	res := s.scoped(ctx, record.UserID).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"amount":      record.Amount,
			"category":    record.Category,
			"description": record.Description,
			"date":        record.Date,
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (s *recordStore) Delete(ctx context.Context, owner, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND kind = ?", id, owner, s.kind).
		Delete(&models.Record{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}
