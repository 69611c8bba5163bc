package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"urlcheck/internal/domain"
)

type staticProgress struct {
	p domain.Progress
}

func (s staticProgress) Progress() domain.Progress { return s.p }

func TestHandleProgress(t *testing.T) {
	src := staticProgress{p: domain.Progress{Completed: 50, Total: 200, Percent: 25, Rate: 10, ETASecs: 15}}
	s := NewServer(":0", src, zap.NewNop())

	ts := httptest.NewServer(s.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/progress")
	if err != nil {
		t.Fatalf("GET /api/progress: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got domain.Progress
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != src.p {
		t.Errorf("progress = %+v, want %+v", got, src.p)
	}
}

func TestHandleHealth(t *testing.T) {
	s := NewServer(":0", staticProgress{}, zap.NewNop())
	ts := httptest.NewServer(s.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
