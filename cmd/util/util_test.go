package util

import (
	"github.com/ValentinKolb/sqKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("Line exceeds %d characters: %q", Wrap, line)
		}
	}

	if got := WrapString("short text"); got != "short text" {
		t.Errorf("Expected short text to be unchanged, got %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logger.LogLevel
		wantErr  bool
	}{
		{"debug", logger.DEBUG, false},
		{"INFO", logger.INFO, false},
		{"warn", logger.WARNING, false},
		{"warning", logger.WARNING, false},
		{"error", logger.ERROR, false},
		{"verbose", logger.WARNING, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			}
			if level != tt.expected {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestGetStoreConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("SQKV_PATH", path)
	t.Setenv("SQKV_DURABLE", "true")

	InitConfig()
	conf := GetStoreConfig()

	if conf.Path != path {
		t.Errorf("Expected path %s, got %s", path, conf.Path)
	}
	if !conf.Durable {
		t.Errorf("Expected durable mode from SQKV_DURABLE")
	}

	s, err := OpenStore()
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	info, err := s.GetDBInfo()
	if err != nil {
		t.Fatalf("GetDBInfo failed: %v", err)
	}
	if info.Path != path || !info.Durable {
		t.Errorf("Store not opened with configured options: %+v", info)
	}
}

func TestGetStoreConfigDefaults(t *testing.T) {
	t.Setenv("SQKV_PATH", "")
	t.Setenv("SQKV_DURABLE", "")

	InitConfig()
	conf := GetStoreConfig()

	if conf.Path != store.DefaultPath() {
		t.Errorf("Expected default path %s, got %s", store.DefaultPath(), conf.Path)
	}
	if conf.Durable {
		t.Errorf("Expected durable mode to be off by default")
	}
}

func TestCreateLogger(t *testing.T) {
	l := CreateLogger("test")
	l.SetLevel(logger.ERROR)

	impl, ok := l.(*sqkvLogger)
	if !ok {
		t.Fatalf("Expected *sqkvLogger, got %T", l)
	}
	if impl.level != logger.ERROR || impl.name != "test" {
		t.Errorf("Unexpected logger state: %+v", impl)
	}

	if err := InitLoggers("nope"); err == nil {
		t.Errorf("Expected error for invalid level")
	}
}
