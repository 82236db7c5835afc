package logging

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStartEnd(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	err := Init(Config{
		FilePath:   logFile,
		Level:      ParseLevel("debug"),
		Format:     FormatText,
		MaxSizeMB:  10,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer Shutdown()

	tc := Start("test operation")
	time.Sleep(10 * time.Millisecond)
	End(tc)

	// Should not panic
}

func TestEndWithCount(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	err := Init(Config{
		FilePath:   logFile,
		Level:      ParseLevel("debug"),
		Format:     FormatText,
		MaxSizeMB:  10,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer Shutdown()

	tc := Start("test operation")
	time.Sleep(10 * time.Millisecond)
	EndWithCount(tc, 100)

	// Should not panic
}

func TestStartEndWithNoLogging(t *testing.T) {
	// Initialize with empty filepath (noop logger)
	err := Init(Config{FilePath: ""})
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	// Should not panic when logging is disabled
	tc := Start("test operation")
	End(tc)
	EndWithCount(tc, 50)
}
