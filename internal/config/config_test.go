package config

import (
	"testing"
	"time"

	"urlcheck/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Profile != ProfileGeneral {
		t.Errorf("Profile = %q, want %q", cfg.Profile, ProfileGeneral)
	}
	if cfg.MaxWorkers != 20 {
		t.Errorf("MaxWorkers = %d, want 20", cfg.MaxWorkers)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Timeout() = %v, want 15s", cfg.Timeout())
	}
	if cfg.RequestDelay() != 300*time.Millisecond {
		t.Errorf("RequestDelay() = %v, want 300ms", cfg.RequestDelay())
	}
	if cfg.RetestTimeoutDuration() != 30*time.Second {
		t.Errorf("RetestTimeoutDuration() = %v, want 30s", cfg.RetestTimeoutDuration())
	}
	if !cfg.IncludeErrorType {
		t.Error("IncludeErrorType = false, want true for the general profile")
	}

	markers := cfg.Markers()
	if len(markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(markers))
	}
	if markers[0].Phrase != domain.OopsErrorMessage {
		t.Errorf("first marker = %q, want the oops phrase", markers[0].Phrase)
	}
}

func TestLoadKayakoProfile(t *testing.T) {
	t.Setenv("CHECK_PROFILE", ProfileKayako)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Timeout() != 20*time.Second {
		t.Errorf("Timeout() = %v, want 20s", cfg.Timeout())
	}
	if cfg.RequestDelay() != 500*time.Millisecond {
		t.Errorf("RequestDelay() = %v, want 500ms", cfg.RequestDelay())
	}
	if cfg.IncludeErrorType {
		t.Error("IncludeErrorType = true, want false for the kayako profile")
	}
	if cfg.ProgressEvery != 100 {
		t.Errorf("ProgressEvery = %d, want 100", cfg.ProgressEvery)
	}

	markers := cfg.Markers()
	if len(markers) != 1 || markers[0].Phrase != domain.KayakoErrorMessage {
		t.Errorf("markers = %+v, want only the kayako phrase", markers)
	}
}

func TestLoadRejectsUnknownProfile(t *testing.T) {
	t.Setenv("CHECK_PROFILE", "bogus")
	if _, err := Load(); err == nil {
		t.Error("Load() with unknown profile returned nil error")
	}
}

func TestExtraMarkersBecomeErrorPages(t *testing.T) {
	t.Setenv("CHECK_PROFILE", ProfileGeneral)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.ExtraMarkers = []string{"maintenance mode", ""}

	markers := cfg.Markers()
	if len(markers) != 3 {
		t.Fatalf("got %d markers, want 3 (blank extras dropped)", len(markers))
	}
	last := markers[len(markers)-1]
	if last.Phrase != "maintenance mode" || last.Status != domain.StatusErrorPage {
		t.Errorf("extra marker = %+v, want an Error Page marker", last)
	}
}
