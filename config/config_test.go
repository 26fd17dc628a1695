package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default http-port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.MatchPoint != 11 {
		t.Errorf("expected default match-point 11, got %d", cfg.MatchPoint)
	}
}

func TestLoad_FlagsOverrideDefaults(t *testing.T) {
	cfg, err := Load([]string{"--http-port=9090", "--broker-host=kafka:9092"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("expected overridden http-port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.BrokerHost != "kafka:9092" {
		t.Errorf("expected overridden broker-host, got %s", cfg.BrokerHost)
	}
}
