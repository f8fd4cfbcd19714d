package donor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage/memstore"
)

func newTestMux(t *testing.T) (*http.ServeMux, *memstore.Store) {
	t.Helper()
	store := memstore.NewStore()
	mux := http.NewServeMux()
	NewHandler(store).RegisterRoutes(mux)
	return mux, store
}

func seedDonor(t *testing.T, store *memstore.Store, id string, group model.BloodGroup, active bool) {
	t.Helper()
	now := time.Now()
	err := store.CreateDonor(context.Background(), &model.Donor{
		ID:         id,
		FirstName:  "Donor",
		LastName:   id,
		Email:      id + "@example.com",
		Phone:      "9999999999",
		Gender:     model.GenderFemale,
		BloodGroup: group,
		Weight:     62,
		IsActive:   active,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func validCreateBody() string {
	return `{
		"firstName": "Asha", "lastName": "Verma",
		"email": "asha@example.com", "phone": "9876543210",
		"dateOfBirth": "1995-04-12T00:00:00Z",
		"gender": "female", "bloodGroup": "O-", "weight": 58,
		"city": "Pune", "state": "Maharashtra",
		"emergencyContact": {"name": "Ravi", "phone": "9123456780"}
	}`
}

func TestCreateDonor(t *testing.T) {
	mux, store := newTestMux(t)

	r := httptest.NewRequest("POST", "/api/v1/donors", strings.NewReader(validCreateBody()))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var donor model.Donor
	json.Unmarshal(w.Body.Bytes(), &donor)
	if !donor.IsActive {
		t.Error("new donor should be active")
	}
	if donor.Email != "asha@example.com" {
		t.Errorf("email = %q", donor.Email)
	}
	stored, _ := store.GetDonor(context.Background(), donor.ID)
	if stored == nil {
		t.Fatal("donor not persisted")
	}

	// 同邮箱重复登记 → 409
	r = httptest.NewRequest("POST", "/api/v1/donors", strings.NewReader(validCreateBody()))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}
}

func TestCreateDonorValidation(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name    string
		mutate  func(m map[string]interface{})
		wantMsg string
	}{
		{"missing firstName", func(m map[string]interface{}) { delete(m, "firstName") }, "firstName"},
		{"bad email", func(m map[string]interface{}) { m["email"] = "nope" }, "email"},
		{"bad gender", func(m map[string]interface{}) { m["gender"] = "unknown" }, "gender"},
		{"bad blood group", func(m map[string]interface{}) { m["bloodGroup"] = "C+" }, "blood group"},
		{"underweight", func(m map[string]interface{}) { m["weight"] = 49.5 }, "50 kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]interface{}
			json.Unmarshal([]byte(validCreateBody()), &m)
			tt.mutate(m)
			body, _ := json.Marshal(m)

			r := httptest.NewRequest("POST", "/api/v1/donors", strings.NewReader(string(body)))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantMsg) {
				t.Errorf("body %q does not name %q", w.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestListDonors(t *testing.T) {
	mux, store := newTestMux(t)
	seedDonor(t, store, "don-1", model.BloodGroupONeg, true)
	seedDonor(t, store, "don-2", model.BloodGroupAPos, true)
	seedDonor(t, store, "don-3", model.BloodGroupAPos, false) // 已停用

	r := httptest.NewRequest("GET", "/api/v1/donors", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Donors []*model.Donor `json:"donors"`
		Count  int            `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2 (inactive excluded)", resp.Count)
	}
}

func TestGetDonor(t *testing.T) {
	mux, store := newTestMux(t)
	seedDonor(t, store, "don-1", model.BloodGroupONeg, true)

	r := httptest.NewRequest("GET", "/api/v1/donors/don-1", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}

	r = httptest.NewRequest("GET", "/api/v1/donors/don-missing", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing donor status = %d, want 404", w.Code)
	}
}

func TestUpdateDonorPermissions(t *testing.T) {
	mux, store := newTestMux(t)
	seedDonor(t, store, "don-1", model.BloodGroupONeg, true)

	do := func(role model.UserRole) *httptest.ResponseRecorder {
		r := httptest.NewRequest("PUT", "/api/v1/donors/don-1", strings.NewReader(validCreateBody()))
		if role != "" {
			ctx := auth.WithAuthUser(r.Context(), &auth.AuthUser{ID: "usr-1", Role: role})
			r = r.WithContext(ctx)
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		return w
	}

	if w := do(model.UserRoleAdmin); w.Code != http.StatusOK {
		t.Errorf("admin update status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
	// view 级角色不能编辑
	if w := do(model.UserRoleHospital); w.Code != http.StatusForbidden {
		t.Errorf("hospital update status = %d, want 403", w.Code)
	}
	if w := do(model.UserRoleDonor); w.Code != http.StatusForbidden {
		t.Errorf("donor update status = %d, want 403", w.Code)
	}
	// 未认证
	if w := do(""); w.Code != http.StatusForbidden {
		t.Errorf("anonymous update status = %d, want 403", w.Code)
	}
}

func TestSearchByBloodGroup(t *testing.T) {
	mux, store := newTestMux(t)
	seedDonor(t, store, "don-1", model.BloodGroupONeg, true)
	seedDonor(t, store, "don-2", model.BloodGroupAPos, true)
	seedDonor(t, store, "don-3", model.BloodGroupONeg, false)

	r := httptest.NewRequest("GET", "/api/v1/donors/search/O-", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Donors []*model.Donor `json:"donors"`
		Count  int            `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	// 精确匹配且只含活跃献血者：A+ 不因兼容 O- 而出现
	if resp.Count != 1 || resp.Donors[0].ID != "don-1" {
		t.Errorf("search result = %+v, want only don-1", resp.Donors)
	}

	r = httptest.NewRequest("GET", "/api/v1/donors/search/X-", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid group status = %d, want 400", w.Code)
	}
}

func TestCompatibility(t *testing.T) {
	mux, _ := newTestMux(t)

	r := httptest.NewRequest("GET", "/api/v1/compatibility/AB+", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		BloodGroup     model.BloodGroup   `json:"bloodGroup"`
		CompatibleWith []model.BloodGroup `json:"compatibleWith"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.CompatibleWith) != 8 {
		t.Errorf("AB+ compatible set size = %d, want 8", len(resp.CompatibleWith))
	}

	r = httptest.NewRequest("GET", "/api/v1/compatibility/Z+", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid group status = %d, want 400", w.Code)
	}
}
