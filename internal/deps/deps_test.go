package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Command != present {
		t.Fatalf("expected resolved command %q, got %q", present, results[0].Command)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	missing := Missing(results)
	if len(missing) != 1 || missing[0].Name != "Missing" {
		t.Fatalf("expected only the required missing binary, got %#v", missing)
	}
}

func TestCheckSubtitleFilter(t *testing.T) {
	withLibass := []byte(" ... scale             V->V       Scale the input video size and/or convert the image format.\n" +
		" ... subtitles         V->V       Render text subtitles onto input video using the libass library.\n")
	withoutLibass := []byte(" ... scale             V->V       Scale the input video size and/or convert the image format.\n")

	tests := []struct {
		name      string
		output    []byte
		err       error
		available bool
	}{
		{name: "libass present", output: withLibass, available: true},
		{name: "libass missing", output: withoutLibass},
		{name: "ffmpeg fails", err: errors.New("exit status 1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBinary string
			list := func(_ context.Context, binary string) ([]byte, error) {
				gotBinary = binary
				return tt.output, tt.err
			}
			status := CheckSubtitleFilterWith(context.Background(), list, "")
			if gotBinary != "ffmpeg" {
				t.Fatalf("expected default binary, got %q", gotBinary)
			}
			if status.Available != tt.available {
				t.Fatalf("expected available=%v, got %#v", tt.available, status)
			}
			if !tt.available && status.Detail == "" {
				t.Fatal("expected detail for failed check")
			}
		})
	}
}

func TestCheckSubtitleFilterRunsBinary(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "ffmpeg")
	script := "#!/bin/sh\necho ' ... subtitles         V->V       Render text subtitles'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	status := CheckSubtitleFilter(context.Background(), stub)
	if !status.Available {
		t.Fatalf("expected stub ffmpeg to report the filter, got %q", status.Detail)
	}
}
