package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ledger/internal/models"
	"ledger/internal/summary"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// RecordOpts overrides fixture defaults. Zero values keep the default.
type RecordOpts struct {
	Amount      string
	Category    string
	Description string
	Date        time.Time
}

// CreateTestRecord inserts a record of kind for userID. Defaults: amount 10,
// the kind's first category, date now.
func CreateTestRecord(t *testing.T, db *gorm.DB, userID string, kind summary.Kind, opts RecordOpts) *models.Record {
	t.Helper()

	if opts.Amount == "" {
		opts.Amount = "10"
	}
	if opts.Category == "" {
		opts.Category = kind.Categories()[0]
	}
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("Test %s %d", kind, nextID())
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	record := &models.Record{
		UserID:      userID,
		Kind:        kind,
		Amount:      decimal.RequireFromString(opts.Amount),
		Category:    opts.Category,
		Description: opts.Description,
		Date:        opts.Date.UTC(),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}

// MustDate parses a YYYY-MM-DD or RFC3339 string in UTC; date-only values
// land at noon so they are safe from zone shifts.
func MustDate(t *testing.T, s string) time.Time {
	t.Helper()
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d.Add(12 * time.Hour)
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", s, err)
	}
	return d
}
