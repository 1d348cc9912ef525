package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ledger/internal/handlers"
	"ledger/internal/logger"
	"ledger/internal/middleware"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/summary"
	"ledger/internal/testutil"
	"ledger/internal/validator"
)

// fixedNow is the instant every integration test computes summaries against.
var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	clock := func() time.Time { return fixedNow }
	loc := time.UTC

	// Stores
	incomeStore := store.NewRecordStore(db, summary.KindIncome)
	expenseStore := store.NewRecordStore(db, summary.KindExpense)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	incomeService := services.NewRecordService(incomeStore, clock, loc)
	expenseService := services.NewRecordService(expenseStore, clock, loc)
	summaryService := services.NewSummaryService(incomeStore, expenseStore, clock, loc, summary.DefaultFeedSize)
	exportService := services.NewExportService(incomeStore, expenseStore, loc)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	incomeHandler := handlers.NewRecordHandler(incomeService, summaryService, auditService, loc)
	expenseHandler := handlers.NewRecordHandler(expenseService, summaryService, auditService, loc)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	exportHandler := handlers.NewExportHandler(exportService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	for path, h := range map[string]*handlers.RecordHandler{"/incomes": incomeHandler, "/expenses": expenseHandler} {
		records := protected.Group(path)
		records.GET("", h.List)
		records.POST("", h.Create)
		records.GET("/summary", h.Summary)
		records.GET("/:id", h.Get)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}

	protected.GET("/summary", summaryHandler.GetSummary)
	protected.GET("/feed", summaryHandler.GetFeed)
	protected.GET("/export/:scope", exportHandler.Export)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test User","email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createRecord posts a record to /incomes or /expenses and returns its ID.
func (app *testApp) createRecord(t *testing.T, token, path, amount, category, description, date string) string {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%q,"category":%q,"description":%q,"date":%q}`, amount, category, description, date)
	rec := app.request("POST", "/api/v1/"+path, body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s failed: %d %s", path, rec.Code, rec.Body.String())
	}
	record := parseJSON(t, rec)["record"].(map[string]interface{})
	return record["id"].(string)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}
