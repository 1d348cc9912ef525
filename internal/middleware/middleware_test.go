package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ledger/internal/config"
	apperrors "ledger/internal/errors"
	"ledger/internal/logger"
	"ledger/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func testUser() *models.User {
	return &models.User{
		Base:  models.Base{ID: "0192f0c2-7a55-7b2c-8e3f-1d2a3b4c5d6e"},
		Email: "alice@example.com",
	}
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return body.Error.Code
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey), "email": c.GetString(EmailKey)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := setupAuthRouter()
	user := testUser()

	t.Run("valid_access_token", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}
		rec := doRequest(r, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body["user_id"] != user.ID {
			t.Errorf("user_id = %q, want %q", body["user_id"], user.ID)
		}
	})

	tests := []struct {
		name   string
		header func(t *testing.T) string
	}{
		{"missing_header", func(t *testing.T) string { return "" }},
		{"bad_scheme", func(t *testing.T) string { return "Token abc" }},
		{"garbage_token", func(t *testing.T) string { return "Bearer not.a.jwt" }},
		{"refresh_token_rejected", func(t *testing.T) string {
			token, err := GenerateRefreshToken(user)
			if err != nil {
				t.Fatalf("GenerateRefreshToken() error = %v", err)
			}
			return "Bearer " + token
		}},
		{"expired_token", func(t *testing.T) string {
			claims := &JWTClaims{
				UserID:    user.ID,
				TokenType: "access",
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
					Issuer:    tokenIssuer,
				},
			}
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Get().JWTSecret))
			return "Bearer " + token
		}},
		{"wrong_key", func(t *testing.T) string {
			claims := &JWTClaims{UserID: user.ID, TokenType: "access", RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer}}
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
			return "Bearer " + token
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(r, tt.header(t))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if code := errorCode(t, rec); code != "UNAUTHORIZED" {
				t.Errorf("expected UNAUTHORIZED, got %q", code)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	user := testUser()

	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if claims.UserID != user.ID || claims.Subject != user.ID {
		t.Errorf("claims = %+v", claims)
	}

	access, _ := GenerateAccessToken(user)
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}

	if HashToken("abc") == HashToken("abd") || len(HashToken("abc")) != 64 {
		t.Error("HashToken should return distinct 64-char hex digests")
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrRecordNotFound) })
	r.GET("/bind", func(c *gin.Context) { _ = c.Error(errors.New("bad json")).SetType(gin.ErrorTypeBind) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("db down")) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/app", http.StatusNotFound, "RECORD_NOT_FOUND"},
		{"/bind", http.StatusBadRequest, "INVALID_INPUT"},
		{"/boom", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("expected %q, got %q", tt.wantCode, code)
			}
		})
	}

	t.Run("no_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", http.NoBody)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("generates_request_id", func(t *testing.T) {
		rec := doRequest(r, "")
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
	})

	t.Run("reuses_valid_request_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("X-Request-ID", "0192f0c2-7a55-7b2c-8e3f-1d2a3b4c5d6e")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got != "0192f0c2-7a55-7b2c-8e3f-1d2a3b4c5d6e" {
			t.Errorf("X-Request-ID = %q", got)
		}
	})
}
