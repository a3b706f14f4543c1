package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "LOCALSOUL_ADDR", "LOCALSOUL_DATABASE_URL", "LOCALSOUL_LAT", "LOCALSOUL_LON"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.HasLatLong {
		t.Fatal("HasLatLong should be false with no coordinates")
	}
}

func TestLoadAPIKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiAPIKey != "g-key" {
		t.Fatalf("GeminiAPIKey = %q, want fallback g-key", cfg.GeminiAPIKey)
	}

	t.Setenv("GEMINI_API_KEY", "primary")
	cfg, _ = Load()
	if cfg.GeminiAPIKey != "primary" {
		t.Fatalf("GeminiAPIKey = %q, want primary", cfg.GeminiAPIKey)
	}
}

func TestLoadCoordinates(t *testing.T) {
	t.Setenv("LOCALSOUL_LAT", "13.0827")
	t.Setenv("LOCALSOUL_LON", "80.2707")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.HasLatLong || cfg.Latitude != 13.0827 || cfg.Longitude != 80.2707 {
		t.Fatalf("coordinates = %+v", cfg)
	}

	t.Setenv("LOCALSOUL_LON", "")
	if _, err := Load(); err == nil {
		t.Fatal("lat without lon should fail")
	}

	t.Setenv("LOCALSOUL_LON", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("malformed longitude should fail")
	}
}
