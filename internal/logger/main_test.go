package logger_test

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/mf010/dynamic-website-sub000/internal/logger"
)

func TestInitErrors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  logger.Log
	}{
		{
			name: "unsupported log level",
			cfg: logger.Log{
				LogLevel:    "shouting",
				ServiceName: "test",
				AppName:     "test",
			},
		},
		{
			name: "empty service name",
			cfg: logger.Log{
				LogLevel: "info",
				AppName:  "test",
			},
		},
		{
			name: "empty app name",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := logger.Init(tc.cfg); err == nil {
				t.Fatal("Init() error = nil, want error")
			}
		})
	}
}

func TestInitConsoleJSON(t *testing.T) {
	// swap stdout before Init so the console writer picks up the pipe
	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	os.Stdout = w

	defer func() { os.Stdout = origStdout }()

	cfg := logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		Console:     logger.Console{Enabled: true, UseConsoleWriter: false},
	}

	if err := logger.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	log.Info().Str("key", "value").Msg("hello")

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe writer: %v", err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read pipe: %v", err)
	}

	line := strings.TrimSpace(string(out))
	if line == "" {
		t.Fatal("expected log output, got none")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("log output is not json: %v (%q)", err, line)
	}

	if payload["message"] != "hello" {
		t.Errorf("message = %v, want %q", payload["message"], "hello")
	}

	if payload["key"] != "value" {
		t.Errorf("key = %v, want %q", payload["key"], "value")
	}
}
