package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/pagination"
	"ledger/internal/store"
	"ledger/internal/summary"
)

const maxDescriptionLength = 200

// recordService handles CRUD for one record kind.
type recordService struct {
	store store.RecordStore
	clock Clock
	loc   *time.Location
}

// NewRecordService creates a RecordServicer over st. Calendar dates in list
// filters are read in loc.
func NewRecordService(st store.RecordStore, clock Clock, loc *time.Location) RecordServicer {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &recordService{store: st, clock: clock, loc: loc}
}

func (s *recordService) Kind() summary.Kind { return s.store.Kind() }

// validate checks the input against the kind's rules and returns the
// normalized description and date.
func (s *recordService) validate(in RecordInput) (string, time.Time, error) {
	if in.Amount.IsNegative() {
		return "", time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return "", time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most 2 decimal places")
	}
	if !s.Kind().HasCategory(in.Category) {
		return "", time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidCategory,
			fmt.Sprintf("category %q is not valid for %s", in.Category, s.Kind()))
	}

	desc := strings.TrimSpace(in.Description)
	if n := utf8.RuneCountInString(desc); n == 0 || n > maxDescriptionLength {
		return "", time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be 1-200 characters")
	}

	date := s.clock()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	return desc, date, nil
}

func (s *recordService) CreateRecord(ctx context.Context, userID string, in RecordInput) (*models.Record, error) {
	desc, date, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	record := &models.Record{
		UserID:      userID,
		Kind:        s.Kind(),
		Amount:      in.Amount,
		Category:    in.Category,
		Description: desc,
		Date:        date,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *recordService) GetRecord(ctx context.Context, userID, id string) (*models.Record, error) {
	return s.store.GetByID(ctx, userID, id)
}

// UpdateRecord replaces the writable fields. Omitting the date keeps the
// stored one.
func (s *recordService) UpdateRecord(ctx context.Context, userID, id string, in RecordInput) (*models.Record, error) {
	record, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Date == nil {
		in.Date = &record.Date
	}

	desc, date, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	record.Amount = in.Amount
	record.Category = in.Category
	record.Description = desc
	record.Date = date
	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *recordService) DeleteRecord(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}

func (s *recordService) ListRecords(ctx context.Context, userID string, q RecordListQuery) (*pagination.PageResponse[models.Record], error) {
	filter, err := summary.BuildFilter(userID, q.Filter, s.loc, s.Kind().Categories())
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}
	sort, err := store.ParseSort(q.SortBy, q.SortOrder)
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}

	q.Page.Defaults()
	rows, total, err := s.store.List(ctx, filter, sort, q.Page)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(rows, q.Page.Page, q.Page.PageSize, total)
	return &result, nil
}
