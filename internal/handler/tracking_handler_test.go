package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/releaseman/internal/model"
)

type mockTrackingReader struct {
	listReleasesFn   func(ctx context.Context) ([]model.ReleaseRecord, error)
	getByReleaseFn   func(ctx context.Context, releaseID string) ([]model.TrackingCount, error)
	getAllReleasesFn func(ctx context.Context) ([]model.TrackingCount, error)
}

func (m *mockTrackingReader) ListReleases(ctx context.Context) ([]model.ReleaseRecord, error) {
	return m.listReleasesFn(ctx)
}

func (m *mockTrackingReader) GetReleaseTrackingMetrics(ctx context.Context, releaseID string) ([]model.TrackingCount, error) {
	return m.getByReleaseFn(ctx, releaseID)
}

func (m *mockTrackingReader) GetReleaseTrackingMetricsForAllReleases(ctx context.Context) ([]model.TrackingCount, error) {
	return m.getAllReleasesFn(ctx)
}

func trackingRouter(h *TrackingHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/tracking/all", h.GetAll)
	r.Get("/tracking/{releaseID}", h.GetByRelease)
	return r
}

func TestTrackingGetAll(t *testing.T) {
	h := NewTrackingHandler(&mockTrackingReader{
		listReleasesFn: func(ctx context.Context) ([]model.ReleaseRecord, error) {
			return []model.ReleaseRecord{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}, nil
		},
		getAllReleasesFn: func(ctx context.Context) ([]model.TrackingCount, error) {
			return []model.TrackingCount{
				{ReleaseID: "r1", Platform: "ios", Count: 10},
				{ReleaseID: "r2", Platform: "android", Count: 5},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/tracking/all", nil)
	rec := httptest.NewRecorder()
	trackingRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body allTrackingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Trackings) != 2 {
		t.Errorf("len(trackings) = %d, want 2", len(body.Trackings))
	}
	if body.TotalReleases != 3 {
		t.Errorf("totalReleases = %d, want 3", body.TotalReleases)
	}
}

func TestTrackingGetAll_EmptyIsArrayNotNull(t *testing.T) {
	h := NewTrackingHandler(&mockTrackingReader{
		listReleasesFn: func(ctx context.Context) ([]model.ReleaseRecord, error) {
			return nil, nil
		},
		getAllReleasesFn: func(ctx context.Context) ([]model.TrackingCount, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/tracking/all", nil)
	rec := httptest.NewRecorder()
	trackingRouter(h).ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if string(body["trackings"]) != "[]" {
		t.Errorf("trackings = %s, want []", body["trackings"])
	}
}

func TestTrackingGetByRelease(t *testing.T) {
	h := NewTrackingHandler(&mockTrackingReader{
		getByReleaseFn: func(ctx context.Context, releaseID string) ([]model.TrackingCount, error) {
			if releaseID != "r1" {
				t.Errorf("releaseID = %q, want r1", releaseID)
			}
			return []model.TrackingCount{
				{ReleaseID: "r1", Platform: "ios", Count: 10},
				{ReleaseID: "r1", Platform: "ios", Count: 2},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/tracking/r1", nil)
	rec := httptest.NewRecorder()
	trackingRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	// 合算せず生の計数行をそのまま返す
	var body []model.TrackingCount
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body) != 2 {
		t.Errorf("len(body) = %d, want 2 raw rows", len(body))
	}
}

func TestTrackingGetByRelease_Failure(t *testing.T) {
	h := NewTrackingHandler(&mockTrackingReader{
		getByReleaseFn: func(ctx context.Context, releaseID string) ([]model.TrackingCount, error) {
			return nil, errors.New("db down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/tracking/r1", nil)
	rec := httptest.NewRecorder()
	trackingRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "TRACKING_FETCH_FAILED" {
		t.Errorf("code = %q, want %q", body.Code, "TRACKING_FETCH_FAILED")
	}
}
