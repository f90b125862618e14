package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want 8080", cfg.Port)
	}
	if cfg.TokenTTLDays != 10 {
		t.Errorf("TokenTTLDays: got %d, want 10", cfg.TokenTTLDays)
	}
	if cfg.DBMaxOpenConns != 25 || cfg.DBMaxIdleConns != 5 {
		t.Errorf("pool defaults: got %d/%d", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("CORSAllowedOrigins: got %v, want nil", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TOKEN_TTL_DAYS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://glitch.io ,")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port: got %q, want 9999", cfg.Port)
	}
	if cfg.TokenTTLDays != 3 {
		t.Errorf("TokenTTLDays: got %d, want 3", cfg.TokenTTLDays)
	}
	want := []string{"http://localhost:5173", "https://glitch.io"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins: got %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("origin %d: got %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL_DAYS", "not-a-number")
	cfg := Load()
	if cfg.TokenTTLDays != 10 {
		t.Errorf("TokenTTLDays: got %d, want fallback 10", cfg.TokenTTLDays)
	}
}
