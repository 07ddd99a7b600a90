package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LazyFu/auto-subtitle/internal/services"
	"github.com/LazyFu/auto-subtitle/internal/services/whisperx"
	"github.com/LazyFu/auto-subtitle/internal/subtitles"
	"github.com/LazyFu/auto-subtitle/internal/testsupport"
)

type fakeExtractor struct {
	calls []string
	err   error
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, video, dest string) error {
	f.calls = append(f.calls, video)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, []byte("RIFF"), 0o644)
}

type fakeTranscriber struct {
	calls    []string
	quiet    []bool
	opts     []whisperx.Options
	segments []subtitles.Segment
	err      error
	hook     func()
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio string, opts whisperx.Options) ([]subtitles.Segment, error) {
	f.calls = append(f.calls, audio)
	f.quiet = append(f.quiet, services.IsQuiet(ctx))
	f.opts = append(f.opts, opts)
	if f.hook != nil {
		f.hook()
	}
	if f.err != nil {
		return nil, f.err
	}
	if _, err := os.Stat(audio); err != nil {
		return nil, err
	}
	return subtitles.Clone(f.segments), nil
}

type fakeTranslator struct {
	calls  int
	failOn string
}

var errProviderDown = errors.New("provider down")

func (f *fakeTranslator) TranslateSegments(_ context.Context, segments []subtitles.Segment, target string) ([]subtitles.Segment, error) {
	f.calls++
	out := make([]subtitles.Segment, len(segments))
	for i, seg := range segments {
		if f.failOn == "*" || (f.failOn != "" && seg.Text == f.failOn) {
			return nil, errProviderDown
		}
		out[i] = seg.WithText("[" + target + "] " + seg.Text)
	}
	return out, nil
}

type burnCall struct {
	video, subtitle, output string
}

type fakeMuxer struct {
	calls  []burnCall
	failOn string
}

func (f *fakeMuxer) Burn(_ context.Context, video, subtitle, output string) error {
	f.calls = append(f.calls, burnCall{video, subtitle, output})
	if f.failOn != "" && filepath.Base(video) == f.failOn {
		return errors.New("ffmpeg exited 1")
	}
	return os.WriteFile(output, []byte("video+subs"), 0o644)
}

type fixture struct {
	t           *testing.T
	root        string
	videoDir    string
	opts        Options
	extractor   *fakeExtractor
	transcriber *fakeTranscriber
	translator  *fakeTranslator
	muxer       *fakeMuxer
	videoTime   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		t:        t,
		root:     root,
		videoDir: filepath.Join(root, "videos"),
		opts: Options{
			OutputDir:            filepath.Join(root, "out"),
			TempDir:              filepath.Join(root, "tmp"),
			PersistIntermediates: true,
		},
		extractor: &fakeExtractor{},
		transcriber: &fakeTranscriber{segments: []subtitles.Segment{
			{Start: 0, End: 1.5, Text: "Hello there"},
			{Start: 1.5, End: 3.2, Text: "How are you"},
		}},
		translator: &fakeTranslator{},
		muxer:      &fakeMuxer{},
		videoTime:  time.Now().Add(-time.Hour),
	}
	return f
}

func (f *fixture) video(name string) string {
	f.t.Helper()
	path := filepath.Join(f.videoDir, name)
	testsupport.WriteFileAt(f.t, path, "video", f.videoTime)
	return path
}

// artifact writes an SRT into the artifact directory. fresh controls whether
// its mtime is after or before the video.
func (f *fixture) artifact(name, text string, fresh bool) string {
	f.t.Helper()
	mtime := f.videoTime.Add(time.Minute)
	if !fresh {
		mtime = f.videoTime.Add(-time.Minute)
	}
	path := filepath.Join(f.opts.ArtifactDir(), name)
	content := "1\n00:00:00,000 --> 00:00:02,000\n" + text + "\n\n"
	testsupport.WriteFileAt(f.t, path, content, mtime)
	return path
}

func (f *fixture) orchestrator() *Orchestrator {
	return New(f.opts, Dependencies{
		Extractor:   f.extractor,
		Transcriber: f.transcriber,
		Translator:  f.translator,
		Muxer:       f.muxer,
	}, nil)
}

func (f *fixture) run(videos ...string) *Report {
	f.t.Helper()
	report, err := f.orchestrator().Run(context.Background(), videos)
	if err != nil {
		f.t.Fatalf("Run returned error: %v", err)
	}
	return report
}

func readSegments(t *testing.T, path string) []subtitles.Segment {
	t.Helper()
	segments, err := subtitles.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return segments
}

func hasWarning(res *VideoResult, fragment string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}
