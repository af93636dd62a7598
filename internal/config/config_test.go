package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("JWT_EXPIRATION", "24h")
	t.Setenv("ATTENDANCE_WORKERS", "3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.JWTExpiration != 24*time.Hour {
		t.Errorf("JWTExpiration = %v", cfg.JWTExpiration)
	}
	if cfg.AttendanceWorkers != 3 {
		t.Errorf("AttendanceWorkers = %d", cfg.AttendanceWorkers)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": "", "ADMIN_PASSWORD": "pw"}},
		{name: "missing admin password", env: map[string]string{"JWT_SECRET": "s", "ADMIN_PASSWORD": ""}},
		{name: "bad expiration", env: map[string]string{"JWT_SECRET": "s", "ADMIN_PASSWORD": "pw", "JWT_EXPIRATION": "soon"}},
		{name: "bad workers", env: map[string]string{"JWT_SECRET": "s", "ADMIN_PASSWORD": "pw", "ATTENDANCE_WORKERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(""); len(got) != 0 {
		t.Errorf("splitList(\"\") = %v", got)
	}
	if got := splitList("a,,b"); len(got) != 2 {
		t.Errorf("splitList(a,,b) = %v", got)
	}
}
