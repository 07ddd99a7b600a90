package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LazyFu/auto-subtitle/internal/testsupport"
)

const ffprobeStub = `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"},{"index":1,"codec_type":"audio","codec_name":"aac","channels":2,"tags":{"language":"eng"},"disposition":{"default":1}}],"format":{"duration":"3.0"}}
JSON
`

// ffmpegStub answers the filter probe and otherwise creates its last
// argument, which is the output file for both extraction and burn-in.
const ffmpegStub = `#!/bin/sh
last=""
for arg; do
  if [ "$arg" = "-filters" ]; then
    echo ' ... subtitles         V->V       Render text subtitles onto input video'
    exit 0
  fi
  last=$arg
done
echo stub > "$last"
`

// uvxStub writes a WhisperX JSON result named after the input audio.
const uvxStub = `#!/bin/sh
out=""
src=""
prev=""
for arg; do
  if [ "$prev" = "--output_dir" ]; then out=$arg; fi
  case "$arg" in *.wav) src=$arg ;; esac
  prev=$arg
done
base=$(basename "$src" .wav)
printf '{"language":"en","segments":[{"start":0.0,"end":1.5,"text":" Hello there "},{"start":1.5,"end":3.0,"text":"General Kenobi"}]}' > "$out/$base.json"
`

const failingStub = "#!/bin/sh\necho boom >&2\nexit 1\n"

type cliTestEnv struct {
	baseDir    string
	binDir     string
	videoDir   string
	outputDir  string
	tempDir    string
	stateDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T, extraConfig string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("OPENROUTER_API_KEY", "")
	env := &cliTestEnv{
		baseDir:    base,
		binDir:     filepath.Join(base, "bin"),
		videoDir:   filepath.Join(base, "videos"),
		outputDir:  filepath.Join(base, "out"),
		tempDir:    filepath.Join(base, "tmp"),
		stateDir:   filepath.Join(base, "state"),
		configPath: filepath.Join(base, "autosubtitle.toml"),
	}
	testsupport.StubBinaries(t, env.binDir, ffprobeStub, "ffprobe")
	testsupport.StubBinaries(t, env.binDir, ffmpegStub, "ffmpeg")
	testsupport.StubBinaries(t, env.binDir, uvxStub, "uvx")

	content := fmt.Sprintf("[paths]\noutput_dir = %q\ntemp_dir = %q\nstate_dir = %q\nlog_dir = \"\"\n\n[output]\nlock_timeout_seconds = 0\n\n%s",
		env.outputDir, env.tempDir, env.stateDir, extraConfig)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) video(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.videoDir, name)
	testsupport.WriteFileAt(t, path, "video", time.Now().Add(-time.Hour))
	return path
}

func (e *cliTestEnv) stub(t *testing.T, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.binDir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("rewrite stub %s: %v", name, err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n---\n%s", needle, haystack)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
