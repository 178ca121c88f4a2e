package httpapi

import (
	"context"
	"testing"
	"time"

	"taaza/backend/internal/domain"
	"taaza/backend/internal/store/memory"
)

func TestAuthManager_LoginAndParse(t *testing.T) {
	repo := memory.NewSeeded()
	auth := NewAuthManager("unit-test-secret", time.Hour, "123456", repo)

	resp, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != "admin" {
		t.Fatalf("expected admin role, got %q", resp.Role)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "admin" || actor.Role != "admin" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestAuthManager_RejectsForeignToken(t *testing.T) {
	repo := memory.NewSeeded()
	issuing := NewAuthManager("secret-one-for-signing!", time.Hour, "123456", repo)
	verifying := NewAuthManager("secret-two-for-parsing!", time.Hour, "123456", repo)

	resp, err := issuing.Login(domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := verifying.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestAuthManager_ExpiredToken(t *testing.T) {
	repo := memory.NewSeeded()
	auth := NewAuthManager("unit-test-secret", time.Millisecond, "123456", repo)

	// TTL below the floor gets clamped, so sign directly with a past expiry.
	token, err := auth.sign("admin", "admin", time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestValidateManagerPIN(t *testing.T) {
	repo := memory.NewSeeded()
	auth := NewAuthManager("unit-test-secret", time.Hour, "445566", repo)

	if !auth.ValidateManagerPIN("445566") {
		t.Fatalf("correct PIN must validate")
	}
	if auth.ValidateManagerPIN("000000") {
		t.Fatalf("wrong PIN must fail")
	}
	if auth.ValidateManagerPIN("") {
		t.Fatalf("empty PIN must fail")
	}
}

func TestCreateCashier_Validation(t *testing.T) {
	repo := memory.NewSeeded()
	auth := NewAuthManager("unit-test-secret", time.Hour, "123456", repo)

	cases := []struct {
		name string
		req  domain.CashierCreateRequest
	}{
		{"short username", domain.CashierCreateRequest{Username: "ab", Password: "longenough"}},
		{"short password", domain.CashierCreateRequest{Username: "newcashier", Password: "123"}},
		{"duplicate", domain.CashierCreateRequest{Username: "cashier", Password: "longenough"}},
	}
	for _, tc := range cases {
		if _, err := auth.CreateCashier(tc.req); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}

	created, err := auth.CreateCashier(domain.CashierCreateRequest{Username: "Evening1", Password: "shiftpass"})
	if err != nil {
		t.Fatalf("create cashier: %v", err)
	}
	if created.Username != "evening1" {
		t.Fatalf("username must be lowercased, got %q", created.Username)
	}

	// The new cashier can log in right away.
	if _, err := auth.Login(domain.LoginRequest{Username: "evening1", Password: "shiftpass"}); err != nil {
		t.Fatalf("new cashier login: %v", err)
	}
}

func TestListCashiers_ExcludesAdmins(t *testing.T) {
	repo := memory.NewSeeded()
	auth := NewAuthManager("unit-test-secret", time.Hour, "123456", repo)

	cashiers := auth.ListCashiers()
	for _, c := range cashiers {
		if c.Role != "cashier" {
			t.Fatalf("admin leaked into cashier list: %+v", c)
		}
	}
	if len(cashiers) == 0 {
		t.Fatalf("expected seeded cashier account")
	}
}

func TestBootstrap_UpgradesPlaintextPasswords(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	// Simulate a legacy account saved before hashing was introduced.
	err := repo.CreateUser(ctx, domain.UserAccount{
		Username:  "legacy",
		Password:  "plainpass",
		Role:      "cashier",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create legacy user: %v", err)
	}

	auth := NewAuthManager("unit-test-secret", time.Hour, "123456", repo)

	if _, err := auth.Login(domain.LoginRequest{Username: "legacy", Password: "plainpass"}); err != nil {
		t.Fatalf("legacy login after upgrade: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	for _, u := range users {
		if u.Username == "legacy" && !isPasswordHash(u.Password) {
			t.Fatalf("plaintext password must be upgraded in the store")
		}
	}
}
