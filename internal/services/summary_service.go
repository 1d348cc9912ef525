package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "ledger/internal/errors"
	"ledger/internal/logger"
	"ledger/internal/store"
	"ledger/internal/summary"
)

// RecentLimit is how many records the per-kind summary and the income side
// of the feed show.
const RecentLimit = 10

// summaryService reads snapshots from the stores and hands them to the
// summary engine.
type summaryService struct {
	incomes  store.RecordStore
	expenses store.RecordStore
	clock    Clock
	loc      *time.Location
	feedSize int
}

// NewSummaryService creates a SummaryServicer. Calendar boundaries are taken
// in loc; feedSize is the default feed length.
func NewSummaryService(incomes, expenses store.RecordStore, clock Clock, loc *time.Location, feedSize int) SummaryServicer {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	if feedSize <= 0 {
		feedSize = summary.DefaultFeedSize
	}
	return &summaryService{
		incomes:  incomes,
		expenses: expenses,
		clock:    clock,
		loc:      loc,
		feedSize: feedSize,
	}
}

func (s *summaryService) now() time.Time {
	return s.clock().In(s.loc)
}

// snapshot loads every record of the owner for one store and narrows it with
// the filter in memory, so both halves come from the same read.
func snapshot(ctx context.Context, st store.RecordStore, filter summary.Filter) (summary.Snapshot, error) {
	all, err := st.FindAllByOwner(ctx, filter.Owner)
	if err != nil {
		return summary.Snapshot{}, err
	}
	return summary.Snapshot{Filtered: filter.Apply(all), All: all}, nil
}

// ComputeSummary builds the combined income/expense summary. The category is
// checked against both vocabularies; a category of one kind simply selects
// nothing of the other. Either fetch failing fails the whole summary.
func (s *summaryService) ComputeSummary(ctx context.Context, owner string, params summary.FilterParams) (*summary.CombinedSummary, error) {
	filter, err := summary.BuildFilter(owner, params, s.loc, nil)
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}

	in := summary.ComposeInput{Now: s.now()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Income, err = snapshot(gctx, s.incomes, filter)
		return err
	})
	g.Go(func() error {
		var err error
		in.Expense, err = snapshot(gctx, s.expenses, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := summary.Compose(in)
	logger.Named("summary").Debugw("computed summary",
		"owner", owner,
		"transactions", result.TransactionCount,
		"balance", result.Balance.String(),
	)
	return &result, nil
}

// ComputeKindSummary summarizes one kind and attaches its most recent records
// regardless of the filter.
func (s *summaryService) ComputeKindSummary(ctx context.Context, owner string, kind summary.Kind, params summary.FilterParams) (*KindSummary, error) {
	st, err := s.storeFor(kind)
	if err != nil {
		return nil, err
	}
	filter, err := summary.BuildFilter(owner, params, s.loc, kind.Categories())
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}

	snap, err := snapshot(ctx, st, filter)
	if err != nil {
		return nil, err
	}

	recent := snap.All
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return &KindSummary{
		Summary: summary.NewAggregator(kind, s.now()).Aggregate(snap.Filtered, snap.All),
		Recent:  append([]summary.Record{}, recent...),
	}, nil
}

// ComputeFeed merges the filter-scoped expenses with the most recent incomes.
// max <= 0 uses the configured feed size.
func (s *summaryService) ComputeFeed(ctx context.Context, owner string, params summary.FilterParams, max int) ([]summary.FeedEntry, error) {
	if max <= 0 {
		max = s.feedSize
	}
	filter, err := summary.BuildFilter(owner, params, s.loc, nil)
	if err != nil {
		return nil, apperrors.FromValidation(err)
	}

	var expenses, incomes []summary.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.FindByOwnerAndFilter(gctx, filter, store.DefaultSort, max)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.incomes.FindByOwnerAndFilter(gctx, filter.Unbounded(), store.DefaultSort, RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summary.MergeFeed(expenses, incomes, max), nil
}

func (s *summaryService) storeFor(kind summary.Kind) (store.RecordStore, error) {
	switch kind {
	case summary.KindIncome:
		return s.incomes, nil
	case summary.KindExpense:
		return s.expenses, nil
	}
	return nil, apperrors.ErrInvalidRecordKind
}
