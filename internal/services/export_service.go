package services

import (
	"context"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	apperrors "ledger/internal/errors"
	"ledger/internal/store"
	"ledger/internal/summary"
)

// Sheet names per kind.
const (
	expenseSheet = "Expenses"
	incomeSheet  = "Income"
)

var (
	exportHeader = []any{"Date", "Category", "Amount", "Description"}
	exportWidths = []float64{15, 18, 12, 30}
)

// exportService renders filter-scoped records to an xlsx workbook.
type exportService struct {
	incomes  store.RecordStore
	expenses store.RecordStore
	loc      *time.Location
}

// NewExportService creates an ExportServicer. Dates are written in loc.
func NewExportService(incomes, expenses store.RecordStore, loc *time.Location) ExportServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{incomes: incomes, expenses: expenses, loc: loc}
}

type exportSheet struct {
	name    string
	store   store.RecordStore
	records []summary.Record
}

func (s *exportService) sheets(scope ExportScope) ([]*exportSheet, []string, error) {
	switch scope {
	case ExportExpenses:
		return []*exportSheet{{name: expenseSheet, store: s.expenses}}, summary.KindExpense.Categories(), nil
	case ExportIncomes:
		return []*exportSheet{{name: incomeSheet, store: s.incomes}}, summary.KindIncome.Categories(), nil
	case ExportAll:
		return []*exportSheet{
			{name: expenseSheet, store: s.expenses},
			{name: incomeSheet, store: s.incomes},
		}, nil, nil
	}
	return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "export scope must be incomes, expenses or all")
}

// Export writes one sheet per kind in scope, newest records first.
func (s *exportService) Export(ctx context.Context, owner string, scope ExportScope, params summary.FilterParams, w io.Writer) error {
	sheets, vocabulary, err := s.sheets(scope)
	if err != nil {
		return err
	}
	filter, err := summary.BuildFilter(owner, params, s.loc, vocabulary)
	if err != nil {
		return apperrors.FromValidation(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sh := range sheets {
		g.Go(func() error {
			var err error
			sh.records, err = sh.store.FindByOwnerAndFilter(gctx, filter, store.DefaultSort, 0)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}

	defaultSheet := f.GetSheetName(0)
	for _, sh := range sheets {
		if err := s.writeSheet(f, sh, amountStyle, headerStyle); err != nil {
			return apperrors.Wrap(apperrors.ErrExportFailed, err)
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}
	idx, err := f.GetSheetIndex(sheets[0].name)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}
	f.SetActiveSheet(idx)

	if _, err := f.WriteTo(w); err != nil {
		return apperrors.Wrap(apperrors.ErrExportFailed, err)
	}
	return nil
}

func (s *exportService) writeSheet(f *excelize.File, sh *exportSheet, amountStyle, headerStyle int) error {
	if _, err := f.NewSheet(sh.name); err != nil {
		return err
	}
	for i, width := range exportWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.name, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(sh.name, "A1", &exportHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", "D1", headerStyle); err != nil {
		return err
	}

	for i, r := range sh.records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.Date.In(s.loc).Format("2006-01-02"),
			r.Category,
			r.Amount.InexactFloat64(),
			r.Description,
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}
	if n := len(sh.records); n > 0 {
		last, err := excelize.CoordinatesToCellName(3, n+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sh.name, "C2", last, amountStyle); err != nil {
			return err
		}
	}
	return nil
}
