package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8081" || cfg.CarsHTTPAddr != ":8082" {
		t.Fatalf("unexpected addrs %+v", cfg)
	}
	if cfg.CarsBaseURL == "" || cfg.ServiceName == "" {
		t.Fatalf("missing defaults %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 1 {
		t.Fatalf("brokers %v", cfg.KafkaBrokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092, ")

	cfg := Load()
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr %q", cfg.HTTPAddr)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "a:9092" || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("brokers %v", cfg.KafkaBrokers)
	}
}
