package services

import (
	"context"
	"testing"

	"ledger/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(ctx, "Alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID to be generated")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser(ctx, "", "dup@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(ctx, "", "DUP@example.com", "password456")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	invalid := []struct {
		name, email, password string
	}{
		{"empty_email", "", "password123"},
		{"empty_password", "test@example.com", ""},
		{"malformed_email", "not-an-email", "password123"},
		{"short_password", "short@example.com", "abc"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewUserService(db)

			_, err := svc.CreateUser(ctx, "", tt.email, tt.password)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(ctx, "", "  Alice@EXAMPLE.COM ", "password123")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("success", func(t *testing.T) {
		got, err := svc.AttemptLogin(ctx, user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
		if got.LastLoginAt == nil {
			t.Error("expected last login to be recorded")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin(ctx, user.Email, "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := svc.AttemptLogin(ctx, "nobody@test.com", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("inactive_user", func(t *testing.T) {
		inactive := testutil.CreateTestUser(t, db)
		db.Model(inactive).Update("is_active", false)
		_, err := svc.AttemptLogin(ctx, inactive.Email, testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if got.Email != user.Email {
		t.Errorf("expected %s, got %s", user.Email, got.Email)
	}

	_, err = svc.GetUserByID(ctx, "0192f0c2-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	got, err := svc.UpdateProfile(ctx, user.ID, "  Bob  ")
	testutil.AssertNoError(t, err)
	if got.Name != "Bob" {
		t.Errorf("expected Bob, got %q", got.Name)
	}

	_, err = svc.UpdateProfile(ctx, user.ID, "   ")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestRefreshTokenHash(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(ctx, user.ID, "abc123"))
	hash, err := svc.GetRefreshTokenHash(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected abc123, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash(ctx, "0192f0c2-0000-7000-8000-000000000000", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
