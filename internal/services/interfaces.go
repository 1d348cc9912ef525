package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/models"
	"ledger/internal/pagination"
	"ledger/internal/summary"
)

// Clock supplies the instant summaries are computed against.
type Clock func() time.Time

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, name, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name string) (*models.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
}

// RecordInput carries the writable fields of a record. A nil Date means now.
type RecordInput struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        *time.Time
}

// RecordListQuery holds the filter, sort and page of a record listing.
type RecordListQuery struct {
	Filter    summary.FilterParams
	SortBy    string
	SortOrder string
	Page      pagination.PageRequest
}

// RecordServicer defines the contract for one kind's record CRUD.
type RecordServicer interface {
	Kind() summary.Kind
	CreateRecord(ctx context.Context, userID string, in RecordInput) (*models.Record, error)
	GetRecord(ctx context.Context, userID, id string) (*models.Record, error)
	UpdateRecord(ctx context.Context, userID, id string, in RecordInput) (*models.Record, error)
	DeleteRecord(ctx context.Context, userID, id string) error
	ListRecords(ctx context.Context, userID string, q RecordListQuery) (*pagination.PageResponse[models.Record], error)
}

// KindSummary is one kind's summary plus its most recent records.
type KindSummary struct {
	summary.Summary
	Recent []summary.Record `json:"recent"`
}

// SummaryServicer computes the derived views over a user's records.
type SummaryServicer interface {
	ComputeSummary(ctx context.Context, owner string, params summary.FilterParams) (*summary.CombinedSummary, error)
	ComputeKindSummary(ctx context.Context, owner string, kind summary.Kind, params summary.FilterParams) (*KindSummary, error)
	ComputeFeed(ctx context.Context, owner string, params summary.FilterParams, max int) ([]summary.FeedEntry, error)
}

// ExportScope selects which kinds an export contains.
type ExportScope string

const (
	ExportIncomes  ExportScope = "incomes"
	ExportExpenses ExportScope = "expenses"
	ExportAll      ExportScope = "all"
)

// ExportServicer writes filter-scoped records as a spreadsheet.
type ExportServicer interface {
	Export(ctx context.Context, owner string, scope ExportScope, params summary.FilterParams, w io.Writer) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
