package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tnxqso/rf2k-launcher/internal/bytesize"
	"github.com/tnxqso/rf2k-launcher/pkg/menu"
)

func TestParseRunChoice(t *testing.T) {
	tests := []struct {
		input   string
		want    menu.Choice
		wantErr bool
	}{
		{input: "1", want: menu.ChoiceRunAll},
		{input: "run-subset", want: menu.ChoiceRunSubset},
		{input: "4", want: menu.ChoiceDebug},
		{input: "check-updates", want: menu.ChoiceCheckUpdates},
		{input: "tune", wantErr: true},
		{input: "9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseRunChoice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseRunChoice(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRunChoice(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseRunChoice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if err := exitCode(0); err != nil {
		t.Errorf("exitCode(0) = %v, want nil", err)
	}

	var exitErr *ExitError
	if !errors.As(exitCode(111), &exitErr) || exitErr.Code != 111 {
		t.Errorf("exitCode(111) = %v, want *ExitError with code 111", exitCode(111))
	}
	if exitErr.Error() != "exit status 111" {
		t.Errorf("Error() = %q", exitErr.Error())
	}

	wrapped := &ExitError{Code: 1, Err: os.ErrNotExist}
	if !errors.Is(wrapped, os.ErrNotExist) {
		t.Error("ExitError should unwrap to its cause")
	}
}

func TestExtractTimestamp(t *testing.T) {
	local := time.Date(2026, 3, 1, 18, 4, 5, 0, time.Local)

	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{name: "launcher text", line: "[2026-03-01 18:04:05] [INFO] session started", want: local},
		{name: "rfc3339 prefix", line: "2026-03-01T17:04:05Z band 20 done", want: time.Date(2026, 3, 1, 17, 4, 5, 0, time.UTC)},
		{name: "json", line: `{"time":"2026-03-01T17:04:05.5Z","level":"INFO"}`, want: time.Date(2026, 3, 1, 17, 4, 5, 5e8, time.UTC)},
		{name: "no timestamp", line: "Tuning 14.000 MHz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTimestamp(tt.line)
			if !got.Equal(tt.want) {
				t.Errorf("extractTimestamp(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTailLines(t *testing.T) {
	input := strings.Join([]string{
		"[2026-03-01 10:00:00] [INFO] one",
		"[2026-03-01 11:00:00] [INFO] two",
		"continuation without timestamp",
		"[2026-03-01 12:00:00] [INFO] three",
	}, "\n")

	t.Run("LastN", func(t *testing.T) {
		got, err := tailLines(strings.NewReader(input), 2, time.Time{})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || !strings.HasSuffix(got[1], "three") {
			t.Errorf("tailLines = %q", got)
		}
	})

	t.Run("Since", func(t *testing.T) {
		since := time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)
		got, err := tailLines(strings.NewReader(input), 100, since)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Fatalf("tailLines since = %q, want 3 lines", got)
		}
		if strings.HasSuffix(got[0], "one") {
			t.Errorf("line before --since was kept: %q", got[0])
		}
	})
}

func TestInventoryLogs(t *testing.T) {
	t.Run("MissingDirectory", func(t *testing.T) {
		inv, err := inventoryLogs(filepath.Join(t.TempDir(), "logs"))
		if err != nil {
			t.Fatal(err)
		}
		if inv.Files != 0 || inv.Size != 0 {
			t.Errorf("inventory of missing dir = %+v", inv)
		}
	})

	t.Run("CountsNestedLogsAndCSV", func(t *testing.T) {
		dir := t.TempDir()
		write := func(rel string, size int, age time.Duration) {
			path := filepath.Join(dir, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
				t.Fatal(err)
			}
			mtime := time.Now().Add(-age)
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				t.Fatal(err)
			}
		}
		write("rf2k-trainer.log", 100, time.Hour)
		write("2026-03-01/band-20.csv", 50, time.Minute)
		write("notes.txt", 1000, 0)

		inv, err := inventoryLogs(dir)
		if err != nil {
			t.Fatal(err)
		}
		if inv.Files != 2 {
			t.Errorf("Files = %d, want 2", inv.Files)
		}
		if inv.Size != bytesize.ByteSize(150) {
			t.Errorf("Size = %d, want 150", inv.Size)
		}
		if filepath.Base(inv.Newest) != "band-20.csv" {
			t.Errorf("Newest = %q, want band-20.csv", inv.Newest)
		}
	})
}
