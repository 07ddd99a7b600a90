package ffprobe

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "sample_rate": "48000",
     "tags": {"LANGUAGE": "jpn", "title": "Main"}, "disposition": {"default": 1}},
    {"index": 2, "codec_name": "ac3", "codec_type": "audio", "channels": 6,
     "tags": {"language": "eng"}, "disposition": {"default": 0}}
  ],
  "format": {"filename": "a.mkv", "nb_streams": 3, "duration": "123.45", "format_name": "matroska,webm"}
}`

func TestInspectWithParsesOutput(t *testing.T) {
	var gotName string
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(sampleJSON), nil
	}

	result, err := InspectWith(context.Background(), run, "", "/videos/a.mkv")
	if err != nil {
		t.Fatalf("InspectWith returned error: %v", err)
	}
	if gotName != "ffprobe" {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	if last := gotArgs[len(gotArgs)-1]; last != "/videos/a.mkv" {
		t.Fatalf("expected path as last argument, got %q", last)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), "-show_streams") {
		t.Fatalf("expected -show_streams in %v", gotArgs)
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
	audio := result.AudioStreams()
	if audio[0].Tag("language") != "jpn" {
		t.Fatalf("expected case-insensitive tag lookup, got %q", audio[0].Tag("language"))
	}
	if !audio[0].IsDefault() || audio[1].IsDefault() {
		t.Fatalf("unexpected default flags")
	}
}

func TestInspectWithErrors(t *testing.T) {
	if _, err := InspectWith(context.Background(), nil, "ffprobe", "  "); err == nil {
		t.Fatal("expected empty path error")
	}

	failing := func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1: no such file")
	}
	if _, err := InspectWith(context.Background(), failing, "ffprobe", "x.mp4"); err == nil || !strings.Contains(err.Error(), "no such file") {
		t.Fatalf("expected runner error to propagate, got %v", err)
	}

	garbage := func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	}
	if _, err := InspectWith(context.Background(), garbage, "ffprobe", "x.mp4"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationSeconds(t *testing.T) {
	if got := (Result{}).DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 for missing duration, got %v", got)
	}
	if got := (Result{Format: Format{Duration: "bad"}}).DurationSeconds(); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}
