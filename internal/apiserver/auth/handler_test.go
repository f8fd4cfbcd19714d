package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage/memstore"
)

func newTestHandler(t *testing.T) (*Handler, *memstore.Store) {
	t.Helper()
	store := memstore.NewStore()
	cfg := Config{JWTSecret: "test-secret", TokenTTL: DefaultConfig().TokenTTL}
	return NewHandler(store, cfg, nil), store
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("%s %s", method, routePattern(target)), h)
	mux.ServeHTTP(w, r)
	return w
}

// routePattern 将具体路径映射回注册模式，保证 PathValue 可用
func routePattern(target string) string {
	switch {
	case strings.HasPrefix(target, "/api/v1/auth/verify/"):
		return "/api/v1/auth/verify/{token}"
	case strings.HasPrefix(target, "/api/v1/auth/reset-password/"):
		return "/api/v1/auth/reset-password/{token}"
	default:
		return target
	}
}

func TestRegister(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"firstName":"Asha","lastName":"Verma","email":"Asha@Example.com","password":"secret1","phone":"9999999999"}`
	w := doJSON(t, h.Register, "POST", "/api/v1/auth/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		User  *model.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Error("expected signed token in response")
	}
	if resp.User.Email != "asha@example.com" {
		t.Errorf("email = %q, want lowercased", resp.User.Email)
	}
	if resp.User.Role != model.UserRoleDonor {
		t.Errorf("role = %q, want default donor", resp.User.Role)
	}
	if strings.Contains(w.Body.String(), "password") || strings.Contains(w.Body.String(), "secret1") {
		t.Error("response leaked password material")
	}

	// 重复邮箱（大小写不同）→ 409
	w = doJSON(t, h.Register, "POST", "/api/v1/auth/register",
		`{"firstName":"A","lastName":"B","email":"ASHA@example.com","password":"secret1"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{"email":"a@b.co","password":"secret1"}`},
		{"short password", `{"firstName":"A","lastName":"B","email":"a@b.co","password":"12345"}`},
		{"bad email", `{"firstName":"A","lastName":"B","email":"not-an-email","password":"secret1"}`},
		{"bad role", `{"firstName":"A","lastName":"B","email":"a@b.co","password":"secret1","role":"superuser"}`},
		{"garbage body", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h.Register, "POST", "/api/v1/auth/register", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	h, store := newTestHandler(t)

	w := doJSON(t, h.Register, "POST", "/api/v1/auth/register",
		`{"firstName":"Asha","lastName":"Verma","email":"asha@example.com","password":"secret1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", w.Code)
	}

	t.Run("success stamps login stats", func(t *testing.T) {
		w := doJSON(t, h.Login, "POST", "/api/v1/auth/login",
			`{"email":"asha@example.com","password":"secret1"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp struct {
			User  *model.User `json:"user"`
			Token string      `json:"token"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Token == "" {
			t.Error("expected token")
		}
		if resp.User.LoginCount != 1 || resp.User.LastLogin == nil {
			t.Errorf("login stats not stamped: count=%d lastLogin=%v", resp.User.LoginCount, resp.User.LastLogin)
		}
		stored, _ := store.GetUserByEmail(t.Context(), "asha@example.com")
		if stored.LoginCount != 1 {
			t.Errorf("persisted loginCount = %d, want 1", stored.LoginCount)
		}
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		w1 := doJSON(t, h.Login, "POST", "/api/v1/auth/login",
			`{"email":"asha@example.com","password":"wrong!"}`)
		w2 := doJSON(t, h.Login, "POST", "/api/v1/auth/login",
			`{"email":"nobody@example.com","password":"secret1"}`)
		if w1.Code != http.StatusUnauthorized || w2.Code != http.StatusUnauthorized {
			t.Fatalf("statuses = %d/%d, want 401/401", w1.Code, w2.Code)
		}
		if w1.Body.String() != w2.Body.String() {
			t.Errorf("401 bodies differ: %q vs %q", w1.Body.String(), w2.Body.String())
		}
	})
}

func TestVerifyEmail(t *testing.T) {
	h, store := newTestHandler(t)

	doJSON(t, h.Register, "POST", "/api/v1/auth/register",
		`{"firstName":"Asha","lastName":"Verma","email":"asha@example.com","password":"secret1"}`)
	user, _ := store.GetUserByEmail(t.Context(), "asha@example.com")
	if user.VerificationToken == "" {
		t.Fatal("register did not issue verification token")
	}

	w := doJSON(t, h.VerifyEmail, "GET", "/api/v1/auth/verify/"+user.VerificationToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	user, _ = store.GetUserByEmail(t.Context(), "asha@example.com")
	if !user.IsVerified || user.VerificationToken != "" {
		t.Errorf("user after verify: isVerified=%v token=%q", user.IsVerified, user.VerificationToken)
	}

	// 已消费的令牌再次使用 → 400
	w = doJSON(t, h.VerifyEmail, "GET", "/api/v1/auth/verify/stale-token", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("stale token status = %d, want 400", w.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	h, store := newTestHandler(t)

	doJSON(t, h.Register, "POST", "/api/v1/auth/register",
		`{"firstName":"Asha","lastName":"Verma","email":"asha@example.com","password":"secret1"}`)

	t.Run("unknown email is 404", func(t *testing.T) {
		w := doJSON(t, h.ForgotPassword, "POST", "/api/v1/auth/forgot-password",
			`{"email":"nobody@example.com"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	w := doJSON(t, h.ForgotPassword, "POST", "/api/v1/auth/forgot-password",
		`{"email":"asha@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("forgot status = %d", w.Code)
	}
	user, _ := store.GetUserByEmail(t.Context(), "asha@example.com")
	if user.ResetPasswordToken == "" || user.ResetPasswordExpires == nil {
		t.Fatal("reset token not persisted")
	}

	t.Run("reset with valid token", func(t *testing.T) {
		w := doJSON(t, h.ResetPassword, "PUT",
			"/api/v1/auth/reset-password/"+user.ResetPasswordToken, `{"password":"newpass1"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		updated, _ := store.GetUserByEmail(t.Context(), "asha@example.com")
		if !CheckPassword("newpass1", updated.PasswordHash) {
			t.Error("new password not set")
		}
		if updated.ResetPasswordToken != "" || updated.ResetPasswordExpires != nil {
			t.Error("reset token not cleared after use")
		}
	})

	t.Run("reused token rejected", func(t *testing.T) {
		w := doJSON(t, h.ResetPassword, "PUT",
			"/api/v1/auth/reset-password/"+user.ResetPasswordToken, `{"password":"another1"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestEnsureAdminUser(t *testing.T) {
	store := memstore.NewStore()

	if err := EnsureAdminUser(store, "Admin@Example.com", "adminpass"); err != nil {
		t.Fatal(err)
	}
	user, _ := store.GetUserByEmail(t.Context(), "admin@example.com")
	if user == nil || user.Role != model.UserRoleAdmin {
		t.Fatalf("admin user not created: %+v", user)
	}

	// 幂等
	if err := EnsureAdminUser(store, "admin@example.com", "adminpass"); err != nil {
		t.Fatal(err)
	}

	// 未配置时不做任何事
	if err := EnsureAdminUser(store, "", ""); err != nil {
		t.Fatal(err)
	}
}
