package config

import "testing"

type sampleConfig struct {
	Addr    string `env:"CALSHARE_TEST_ADDR" envDefault:"localhost:8080"`
	Retries int    `env:"CALSHARE_TEST_RETRIES" envDefault:"3"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg sampleConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:8080" {
		t.Fatalf("addr = %q, want default", cfg.Addr)
	}
	if cfg.Retries != 3 {
		t.Fatalf("retries = %d, want 3", cfg.Retries)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("CALSHARE_TEST_ADDR", "0.0.0.0:9090")
	t.Setenv("CALSHARE_TEST_RETRIES", "5")

	var cfg sampleConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9090" {
		t.Fatalf("addr = %q, want override", cfg.Addr)
	}
	if cfg.Retries != 5 {
		t.Fatalf("retries = %d, want 5", cfg.Retries)
	}
}
