package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/store"
)

var fixedNow = time.Date(2026, time.May, 4, 7, 15, 0, 0, time.UTC)

type ledgerCall struct {
	production models.Production
	tag        string
}

type fakeLedger struct {
	calls []ledgerCall
	err   error
}

func (f *fakeLedger) AppendProduction(_ context.Context, p models.Production, cattleTag string) error {
	f.calls = append(f.calls, ledgerCall{production: p, tag: cattleTag})
	return f.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newStoreEngine(t *testing.T, ledger ProductionLedger) (*gin.Engine, *store.Store) {
	t.Helper()

	clock := func() time.Time { return fixedNow }
	st := store.New(nil, store.WithClock(clock))
	h := NewStoreHandler(st, ledger, clock, nil)

	r := gin.New()
	r.GET("/api/state", h.State)
	r.PUT("/api/user", h.SetUser)
	r.DELETE("/api/user", h.ClearUser)
	r.PUT("/api/ranches/current", h.SetCurrentRanch)
	r.POST("/api/onboarding/ranch", h.OnboardRanch)
	r.PUT("/api/onboarding/step", h.SetOnboardingStep)
	r.POST("/api/onboarding/complete", h.SetOnboardingComplete)
	r.PUT("/api/ui/loading", h.SetLoading)
	r.GET("/api/cattle", h.ListCattle)
	r.POST("/api/cattle", h.AddCattle)
	r.PATCH("/api/cattle/:id", h.UpdateCattle)
	r.POST("/api/tasks", h.AddTask)
	r.PATCH("/api/tasks/:id", h.UpdateTask)
	r.POST("/api/tasks/:id/complete", h.CompleteTask)
	r.POST("/api/tasks/:id/cancel", h.CancelTask)
	r.GET("/api/productions", h.ListProductions)
	r.PUT("/api/productions", h.SetProductions)
	r.POST("/api/productions", h.AddProduction)

	return r, st
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestOnboardRanchSetsCurrentAndAdvancesStep(t *testing.T) {
	r, st := newStoreEngine(t, nil)

	w := doJSON(t, r, http.MethodPut, "/api/user", models.User{ID: "u1", Email: "ana@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/onboarding/ranch", gin.H{"name": "La Esperanza", "location": "Jalisco", "size": 120.5})
	require.Equal(t, http.StatusCreated, w.Code)

	state := st.Snapshot()
	require.NotNil(t, state.CurrentRanch)
	assert.Equal(t, "La Esperanza", state.CurrentRanch.Name)
	assert.Equal(t, "u1", state.CurrentRanch.UserID)
	assert.NotEmpty(t, state.CurrentRanch.ID)
	assert.Len(t, state.Ranches, 1)
	assert.Equal(t, int(models.OnboardingFirstCattle), state.OnboardingStep)
}

func TestOnboardRanchRequiresName(t *testing.T) {
	r, st := newStoreEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/onboarding/ranch", gin.H{"location": "Jalisco"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, st.CurrentRanch())
}

func TestClearUser(t *testing.T) {
	r, st := newStoreEngine(t, nil)
	st.SetUser(&models.User{ID: "u1"})

	w := doJSON(t, r, http.MethodDelete, "/api/user", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, st.User())
}

func TestSetCurrentRanchRequiresID(t *testing.T) {
	r, _ := newStoreEngine(t, nil)

	w := doJSON(t, r, http.MethodPut, "/api/ranches/current", models.Ranch{Name: "nameless"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlags(t *testing.T) {
	r, st := newStoreEngine(t, nil)

	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/api/onboarding/step", gin.H{"step": 3}).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/onboarding/complete", gin.H{"value": true}).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/api/ui/loading", gin.H{"value": true}).Code)

	assert.Equal(t, 3, st.OnboardingStep())
	assert.True(t, st.IsOnboardingComplete())
	assert.True(t, st.IsLoading())

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPut, "/api/onboarding/step", gin.H{"step": 9}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPut, "/api/ui/loading", gin.H{}).Code)
}

func TestAddCattle(t *testing.T) {
	r, st := newStoreEngine(t, nil)
	st.SetCurrentRanch(models.Ranch{ID: "r1", Name: "La Esperanza"})

	w := doJSON(t, r, http.MethodPost, "/api/cattle", gin.H{
		"internalId": "MX-001",
		"breed":      "Holstein",
		"gender":     "FEMALE",
		"birthDate":  "2022-03-01",
		"weight":     430.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Cattle](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "r1", created.RanchID)
	assert.Equal(t, models.CattleActive, created.Status)
	assert.Equal(t, fixedNow, created.CreatedAt.UTC())

	cattle := st.Cattle()
	require.Len(t, cattle, 1)
	assert.Equal(t, "MX-001", cattle[0].InternalID)
}

func TestAddCattleValidation(t *testing.T) {
	cases := []struct {
		name string
		body gin.H
	}{
		{"missing tag", gin.H{"breed": "Holstein", "gender": "FEMALE", "birthDate": "2022-03-01"}},
		{"bad gender", gin.H{"internalId": "MX-1", "breed": "Holstein", "gender": "COW", "birthDate": "2022-03-01"}},
		{"bad date", gin.H{"internalId": "MX-1", "breed": "Holstein", "gender": "MALE", "birthDate": "01/03/2022"}},
		{"negative weight", gin.H{"internalId": "MX-1", "breed": "Holstein", "gender": "MALE", "birthDate": "2022-03-01", "weight": -4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, st := newStoreEngine(t, nil)

			w := doJSON(t, r, http.MethodPost, "/api/cattle", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
			assert.Empty(t, st.Cattle())
		})
	}
}

func TestUpdateCattle(t *testing.T) {
	r, st := newStoreEngine(t, nil)
	st.AddCattle(models.Cattle{ID: "c1", InternalID: "MX-001", Breed: "Holstein", Gender: models.GenderFemale, Status: models.CattleActive})

	w := doJSON(t, r, http.MethodPatch, "/api/cattle/c1", gin.H{"weight": 455.0})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[models.Cattle](t, w)
	require.NotNil(t, updated.Weight)
	assert.Equal(t, 455.0, *updated.Weight)
	assert.Equal(t, "Holstein", updated.Breed)

	w = doJSON(t, r, http.MethodPatch, "/api/cattle/missing", gin.H{"weight": 455.0})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/cattle/c1", gin.H{"status": "LOST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	r, st := newStoreEngine(t, nil)
	st.SetUser(&models.User{ID: "u1"})
	st.SetCurrentRanch(models.Ranch{ID: "r1"})

	w := doJSON(t, r, http.MethodPost, "/api/tasks", gin.H{"title": "Vaccinate calves", "dueDate": "2026-05-04"})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[models.Task](t, w)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, models.FrequencyOnce, task.Frequency)
	assert.Equal(t, "u1", task.UserID)
	assert.Equal(t, "r1", task.RanchID)

	w = doJSON(t, r, http.MethodPatch, "/api/tasks/"+task.ID, gin.H{"status": "COMPLETED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/tasks/"+task.ID, gin.H{"title": "Vaccinate all calves"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Vaccinate all calves", decode[models.Task](t, w).Title)

	w = doJSON(t, r, http.MethodPost, "/api/tasks/"+task.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	completed := decode[models.Task](t, w)
	assert.Equal(t, models.TaskCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	w = doJSON(t, r, http.MethodPost, "/api/tasks/"+task.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TaskCompleted, decode[models.Task](t, w).Status)

	w = doJSON(t, r, http.MethodPost, "/api/tasks/nope/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, st.Tasks(), 1)
}

func TestAddProductionExportsToLedger(t *testing.T) {
	ledger := &fakeLedger{}
	r, st := newStoreEngine(t, ledger)
	st.SetCurrentRanch(models.Ranch{ID: "r1"})
	st.AddCattle(models.Cattle{ID: "c1", InternalID: "MX-001", Gender: models.GenderFemale, Status: models.CattleActive})

	w := doJSON(t, r, http.MethodPost, "/api/productions", gin.H{
		"cattleId": "c1",
		"liters":   12.5,
		"date":     "2026-05-04",
		"shift":    "MORNING",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	recent := st.RecentProductions()
	require.Len(t, recent, 1)
	assert.Equal(t, 12.5, recent[0].Liters)
	assert.Equal(t, "r1", recent[0].RanchID)

	require.Len(t, ledger.calls, 1)
	assert.Equal(t, "MX-001", ledger.calls[0].tag)
	assert.Equal(t, recent[0].ID, ledger.calls[0].production.ID)
}

func TestAddProductionLedgerFailureStillRecords(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("quota exceeded")}
	r, st := newStoreEngine(t, ledger)

	w := doJSON(t, r, http.MethodPost, "/api/productions", gin.H{
		"cattleId": "unknown",
		"liters":   3,
		"date":     "2026-05-04",
		"shift":    "EVENING",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, st.RecentProductions(), 1)
	require.Len(t, ledger.calls, 1)
	assert.Empty(t, ledger.calls[0].tag)
}

func TestAddProductionValidation(t *testing.T) {
	r, st := newStoreEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/productions", gin.H{"cattleId": "c1", "liters": 0, "date": "2026-05-04", "shift": "MORNING"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/productions", gin.H{"cattleId": "c1", "liters": 4, "date": "2026-05-04", "shift": "NIGHT"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, st.RecentProductions())
}

func TestSetProductionsKeepsNewestTen(t *testing.T) {
	r, _ := newStoreEngine(t, nil)

	productions := make([]models.Production, 12)
	for i := range productions {
		productions[i] = models.Production{ID: string(rune('a' + i)), Liters: float64(i)}
	}

	w := doJSON(t, r, http.MethodPut, "/api/productions", productions)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[[]models.Production](t, w)
	require.Len(t, got, store.RecentCapacity)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "j", got[9].ID)
}

func TestStateReturnsSnapshot(t *testing.T) {
	r, st := newStoreEngine(t, nil)
	st.AddCattle(models.Cattle{ID: "c1"})
	st.SetIsLoading(true)

	w := doJSON(t, r, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["isLoading"])
	assert.Len(t, body["cattle"], 1)
}
