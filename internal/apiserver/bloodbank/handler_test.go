package bloodbank

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

// fakeSummaryCache 记录调用次数的内存缓存
type fakeSummaryCache struct {
	summary     *model.AvailabilitySummary
	hits, sets  int
	invalidates int
}

func (c *fakeSummaryCache) GetAvailabilitySummary(ctx context.Context) (*model.AvailabilitySummary, error) {
	if c.summary != nil {
		c.hits++
	}
	return c.summary, nil
}

func (c *fakeSummaryCache) SetAvailabilitySummary(ctx context.Context, s *model.AvailabilitySummary) error {
	c.sets++
	c.summary = s
	return nil
}

func (c *fakeSummaryCache) InvalidateAvailabilitySummary(ctx context.Context) error {
	c.invalidates++
	c.summary = nil
	return nil
}

func newTestMux(t *testing.T) (*http.ServeMux, *memstore.Store, *fakeSummaryCache) {
	t.Helper()
	store := memstore.NewStore()
	fc := &fakeSummaryCache{}
	mux := http.NewServeMux()
	NewHandler(store, fc).RegisterRoutes(mux)
	return mux, store, fc
}

func seedBank(t *testing.T, store *memstore.Store, id, name, city, state string, inv map[model.BloodGroup]int, active bool) {
	t.Helper()
	now := time.Now()
	err := store.CreateBloodBank(context.Background(), &model.BloodBank{
		ID:             id,
		Name:           name,
		City:           city,
		State:          state,
		Phone:          "020123456",
		BloodInventory: inv,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func asAdmin(r *http.Request) *http.Request {
	ctx := auth.WithAuthUser(r.Context(), &auth.AuthUser{ID: "usr-1", Email: "admin@example.com", Role: model.UserRoleAdmin})
	return r.WithContext(ctx)
}

func TestListBloodBanks(t *testing.T) {
	mux, store, _ := newTestMux(t)
	seedBank(t, store, "bank-1", "Pune Central", "Pune", "Maharashtra",
		map[model.BloodGroup]int{model.BloodGroupAPos: 4}, true)
	seedBank(t, store, "bank-2", "Mumbai East", "Mumbai", "Maharashtra",
		map[model.BloodGroup]int{model.BloodGroupAPos: 0}, true)
	seedBank(t, store, "bank-3", "Closed Bank", "Pune", "Maharashtra", nil, false)

	get := func(target string) []*model.BloodBank {
		r := httptest.NewRequest("GET", target, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", target, w.Code)
		}
		var resp struct {
			BloodBanks []*model.BloodBank `json:"bloodBanks"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		return resp.BloodBanks
	}

	if banks := get("/api/v1/bloodbanks"); len(banks) != 2 {
		t.Errorf("unfiltered len = %d, want 2 (inactive excluded)", len(banks))
	}
	// 大小写不敏感子串匹配
	if banks := get("/api/v1/bloodbanks?city=pun"); len(banks) != 1 || banks[0].ID != "bank-1" {
		t.Errorf("city filter = %+v, want only bank-1", banks)
	}
	// 血型过滤只保留库存 > 0 的血库
	if banks := get("/api/v1/bloodbanks?bloodGroup=A%2B"); len(banks) != 1 || banks[0].ID != "bank-1" {
		t.Errorf("bloodGroup filter = %+v, want only bank-1", banks)
	}

	r := httptest.NewRequest("GET", "/api/v1/bloodbanks?bloodGroup=bogus", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid filter status = %d, want 400", w.Code)
	}
}

func TestCreateBloodBank(t *testing.T) {
	mux, store, fc := newTestMux(t)

	body := `{
		"name": "Pune Central Blood Bank",
		"address": "MG Road", "city": "Pune", "state": "Maharashtra",
		"phone": "020123456",
		"bloodInventory": {"A+": 10, "O-": 5}
	}`

	// 无 manage 权限 → 403
	r := httptest.NewRequest("POST", "/api/v1/bloodbanks", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("anonymous create status = %d, want 403", w.Code)
	}

	r = httptest.NewRequest("POST", "/api/v1/bloodbanks", strings.NewReader(body))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, asAdmin(r))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var bank model.BloodBank
	json.Unmarshal(w.Body.Bytes(), &bank)
	if !bank.IsActive {
		t.Error("new bank should be active")
	}
	if stored, _ := store.GetBloodBank(context.Background(), bank.ID); stored == nil {
		t.Error("bank not persisted")
	}
	if fc.invalidates != 1 {
		t.Errorf("invalidates = %d, want 1 (create invalidates summary)", fc.invalidates)
	}

	// 缺 name → 400
	r = httptest.NewRequest("POST", "/api/v1/bloodbanks", strings.NewReader(`{"city":"Pune","state":"MH","phone":"1"}`))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, asAdmin(r))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", w.Code)
	}
}

func TestReplaceInventory(t *testing.T) {
	mux, store, fc := newTestMux(t)
	seedBank(t, store, "bank-1", "Pune Central", "Pune", "Maharashtra",
		map[model.BloodGroup]int{model.BloodGroupAPos: 4, model.BloodGroupONeg: 2}, true)

	put := func(id, body string, admin bool) *httptest.ResponseRecorder {
		r := httptest.NewRequest("PUT", "/api/v1/bloodbanks/"+id+"/inventory", strings.NewReader(body))
		if admin {
			r = asAdmin(r)
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		return w
	}

	if w := put("bank-1", `{"bloodInventory":{"A+":1}}`, false); w.Code != http.StatusForbidden {
		t.Errorf("anonymous status = %d, want 403", w.Code)
	}

	// 整体替换：未提及的血型归零，而不是保留
	w := put("bank-1", `{"bloodInventory":{"B+": 7}}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	stored, _ := store.GetBloodBank(context.Background(), "bank-1")
	if stored.BloodInventory[model.BloodGroupBPos] != 7 {
		t.Errorf("B+ = %d, want 7", stored.BloodInventory[model.BloodGroupBPos])
	}
	if _, ok := stored.BloodInventory[model.BloodGroupAPos]; ok {
		t.Error("whole-map replace should drop unmentioned groups")
	}
	if fc.invalidates != 1 {
		t.Errorf("invalidates = %d, want 1", fc.invalidates)
	}

	if w := put("bank-1", `{"bloodInventory":{"A+": -1}}`, true); w.Code != http.StatusBadRequest {
		t.Errorf("negative units status = %d, want 400", w.Code)
	}
	if w := put("bank-1", `{"bloodInventory":{"Z+": 1}}`, true); w.Code != http.StatusBadRequest {
		t.Errorf("unknown group status = %d, want 400", w.Code)
	}
	if w := put("bank-1", `{}`, true); w.Code != http.StatusBadRequest {
		t.Errorf("missing inventory status = %d, want 400", w.Code)
	}
	if w := put("bank-missing", `{"bloodInventory":{"A+":1}}`, true); w.Code != http.StatusNotFound {
		t.Errorf("missing bank status = %d, want 404", w.Code)
	}
}

func TestAvailabilitySummary(t *testing.T) {
	mux, store, fc := newTestMux(t)
	seedBank(t, store, "bank-1", "Active Bank", "Pune", "Maharashtra",
		map[model.BloodGroup]int{model.BloodGroupAPos: 10, model.BloodGroupONeg: 5}, true)
	seedBank(t, store, "bank-2", "Inactive Bank", "Pune", "Maharashtra",
		map[model.BloodGroup]int{model.BloodGroupAPos: 100}, false)

	get := func() *model.AvailabilitySummary {
		r := httptest.NewRequest("GET", "/api/v1/bloodbanks/availability/summary", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var s model.AvailabilitySummary
		json.Unmarshal(w.Body.Bytes(), &s)
		return &s
	}

	s := get()
	if s.TotalBanks != 1 {
		t.Errorf("totalBanks = %d, want 1 (inactive excluded)", s.TotalBanks)
	}
	if s.BloodGroups[model.BloodGroupAPos] != 10 || s.BloodGroups[model.BloodGroupONeg] != 5 {
		t.Errorf("sums = %+v", s.BloodGroups)
	}
	// 全部 8 个血型键必须出现，缺失记 0
	if len(s.BloodGroups) != 8 {
		t.Errorf("blood group keys = %d, want 8", len(s.BloodGroups))
	}
	if s.BloodGroups[model.BloodGroupABNeg] != 0 {
		t.Errorf("AB- = %d, want 0", s.BloodGroups[model.BloodGroupABNeg])
	}
	if fc.sets != 1 {
		t.Errorf("cache sets = %d, want 1", fc.sets)
	}

	// 第二次命中缓存，不再回源写缓存
	get()
	if fc.hits != 1 || fc.sets != 1 {
		t.Errorf("hits = %d sets = %d, want 1/1", fc.hits, fc.sets)
	}
}
