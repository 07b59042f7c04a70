package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlimanIrawan/zhiji-sub000/internal/config"
	"github.com/AlimanIrawan/zhiji-sub000/internal/userctx"
)

func testConfig(authRequired bool) *config.Config {
	return &config.Config{
		AuthMode:      "dev",
		AuthRequired:  authRequired,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "zhiji-test",
		JWTTTLMinutes: 60,
	}
}

func TestHandleDevAuth(t *testing.T) {
	service := NewService(testConfig(true))
	handler := NewHandlers(service)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil)
	w := httptest.NewRecorder()

	handler.HandleDevAuth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp DevAuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.AccessToken == "" {
		t.Error("expected non-empty access token")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("expected token type Bearer, got %s", resp.TokenType)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", resp.ExpiresIn)
	}

	// выданный токен проходит проверку
	userID, err := service.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyJWT failed: %v", err)
	}
	if userID != "dev-user" {
		t.Errorf("expected sub dev-user, got %s", userID)
	}
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	service := NewService(testConfig(true))

	if _, err := service.VerifyJWT("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}

	// токен, подписанный другим секретом
	other := NewService(&config.Config{JWTSecret: "other-secret", JWTIssuer: "x", JWTTTLMinutes: 60})
	resp, err := other.SignInDev(context.Background())
	if err != nil {
		t.Fatalf("SignInDev failed: %v", err)
	}
	if _, err := service.VerifyJWT(resp.AccessToken); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestRequireAuthMiddleware(t *testing.T) {
	cfg := testConfig(true)
	service := NewService(cfg)
	mw := NewMiddleware(cfg, service)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = userctx.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := mw.RequireAuth(next)

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("ValidToken", func(t *testing.T) {
		resp, _ := service.SignInDev(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
		req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if gotUserID != "dev-user" {
			t.Errorf("expected user dev-user in context, got %q", gotUserID)
		}
	})

	t.Run("PublicPathSkipsCheck", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("AuthNotRequired", func(t *testing.T) {
		relaxed := NewMiddleware(testConfig(false), service).RequireAuth(next)
		req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
		w := httptest.NewRecorder()
		relaxed.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	cfg := testConfig(false)
	service := NewService(cfg)
	mw := NewMiddleware(cfg, service)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.OptionalAuth(next)

	t.Run("NoTokenPassesThrough", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/food/records", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("BadTokenRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/food/records", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})
}
