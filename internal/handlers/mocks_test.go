package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"ledger/internal/logger"
	"ledger/internal/middleware"
	"ledger/internal/models"
	"ledger/internal/pagination"
	"ledger/internal/services"
	"ledger/internal/summary"
	"ledger/internal/validator"
)

const (
	testUserID   = "0190b6b2-7c1e-7a3e-9d4f-1a2b3c4d5e6f"
	testRecordID = "0190b6b2-8000-7000-8000-000000000001"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(name, email, password string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	attemptLoginFn          func(email, password string) (*models.User, error)
	updateProfileFn         func(id, name string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
}

func (m *mockUserService) CreateUser(_ context.Context, name, email, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(_ *models.User, _ string) bool { return true }

func (m *mockUserService) AttemptLogin(_ context.Context, email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateProfile(_ context.Context, id, name string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(id, name)
	}
	return &models.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(_ context.Context, userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(_ context.Context, userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

type mockRecordService struct {
	kind     summary.Kind
	createFn func(userID string, in services.RecordInput) (*models.Record, error)
	getFn    func(userID, id string) (*models.Record, error)
	updateFn func(userID, id string, in services.RecordInput) (*models.Record, error)
	deleteFn func(userID, id string) error
	listFn   func(userID string, q services.RecordListQuery) (*pagination.PageResponse[models.Record], error)
}

func (m *mockRecordService) Kind() summary.Kind { return m.kind }

func (m *mockRecordService) CreateRecord(_ context.Context, userID string, in services.RecordInput) (*models.Record, error) {
	if m.createFn != nil {
		return m.createFn(userID, in)
	}
	return &models.Record{}, nil
}

func (m *mockRecordService) GetRecord(_ context.Context, userID, id string) (*models.Record, error) {
	if m.getFn != nil {
		return m.getFn(userID, id)
	}
	return &models.Record{}, nil
}

func (m *mockRecordService) UpdateRecord(_ context.Context, userID, id string, in services.RecordInput) (*models.Record, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, id, in)
	}
	return &models.Record{}, nil
}

func (m *mockRecordService) DeleteRecord(_ context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, id)
	}
	return nil
}

func (m *mockRecordService) ListRecords(_ context.Context, userID string, q services.RecordListQuery) (*pagination.PageResponse[models.Record], error) {
	if m.listFn != nil {
		return m.listFn(userID, q)
	}
	resp := pagination.NewPageResponse[models.Record](nil, 1, 20, 0)
	return &resp, nil
}

type mockSummaryService struct {
	summaryFn     func(owner string, params summary.FilterParams) (*summary.CombinedSummary, error)
	kindSummaryFn func(owner string, kind summary.Kind, params summary.FilterParams) (*services.KindSummary, error)
	feedFn        func(owner string, params summary.FilterParams, max int) ([]summary.FeedEntry, error)
}

func (m *mockSummaryService) ComputeSummary(_ context.Context, owner string, params summary.FilterParams) (*summary.CombinedSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(owner, params)
	}
	return &summary.CombinedSummary{
		Income:  summary.EmptySummary(summary.KindIncome),
		Expense: summary.EmptySummary(summary.KindExpense),
	}, nil
}

func (m *mockSummaryService) ComputeKindSummary(_ context.Context, owner string, kind summary.Kind, params summary.FilterParams) (*services.KindSummary, error) {
	if m.kindSummaryFn != nil {
		return m.kindSummaryFn(owner, kind, params)
	}
	return &services.KindSummary{Summary: summary.EmptySummary(kind), Recent: []summary.Record{}}, nil
}

func (m *mockSummaryService) ComputeFeed(_ context.Context, owner string, params summary.FilterParams, max int) ([]summary.FeedEntry, error) {
	if m.feedFn != nil {
		return m.feedFn(owner, params, max)
	}
	return []summary.FeedEntry{}, nil
}

type mockExportService struct {
	exportFn func(owner string, scope services.ExportScope, params summary.FilterParams, w io.Writer) error
}

func (m *mockExportService) Export(_ context.Context, owner string, scope services.ExportScope, params summary.FilterParams, w io.Writer) error {
	if m.exportFn != nil {
		return m.exportFn(owner, scope, params, w)
	}
	return nil
}

type auditEntry struct {
	userID       string
	action       string
	resourceType string
	resourceID   string
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(_ context.Context, userID, action, resourceType, resourceID, _ string, _ map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{userID: userID, action: action, resourceType: resourceType, resourceID: resourceID})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.action)
	}
	return out
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
