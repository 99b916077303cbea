package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "volmesh.log")

	// 1MB is the smallest size lumberjack rotates at.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	payload := strings.Repeat("v", 200)
	for i := range 15000 {
		Sugar.Infof("shape %d built: %s", i, payload)
	}
	Sync()

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var rotated []string
	foundCurrent := false
	for _, f := range files {
		switch {
		case f.Name() == "volmesh.log":
			foundCurrent = true
		case strings.HasPrefix(f.Name(), "volmesh-20") && strings.HasSuffix(f.Name(), ".log"):
			rotated = append(rotated, f.Name())
		}
	}

	if !foundCurrent {
		t.Error("main log file does not exist")
	}
	if len(rotated) == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			if err := InitWithFileConfig(tt.level, DefaultFileConfig(logFile), false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNamed(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	if err := InitWithFileConfig("info", DefaultFileConfig(logFile), false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("provider").Info("published", zap.Int("shapes", 4))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "provider") || !strings.Contains(string(content), `"shapes": 4`) {
		t.Errorf("expected named logger output, got %q", content)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q): unexpected error state %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tc.name, got, tc.want)
		}
	}

	if err := InitWithFileConfig("verbose", FileConfig{}, false); err == nil {
		t.Error("expected Init to reject unknown level")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/volmesh.log")

	if cfg.Path != "/tmp/volmesh.log" {
		t.Errorf("expected path /tmp/volmesh.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 5 || cfg.MaxAgeDays != 14 {
		t.Errorf("unexpected rotation settings %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
