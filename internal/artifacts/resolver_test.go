package artifacts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LazyFu/auto-subtitle/internal/testsupport"
)

func TestPathsFor(t *testing.T) {
	paths := PathsFor("/videos/show.s01e01.mkv", "/out", "es")
	assert.Equal(t, filepath.Join("/out", "show.s01e01.srt"), paths.Original)
	assert.Equal(t, filepath.Join("/out", "show.s01e01_es.srt"), paths.Translated)

	paths = PathsFor("clip.mp4", "/tmp/work", "")
	assert.Equal(t, filepath.Join("/tmp/work", "clip.srt"), paths.Original)
	assert.Empty(t, paths.Translated)
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "/out", BaseDir("/out", "/tmp", true))
	assert.Equal(t, "/tmp", BaseDir("/out", "/tmp", false))
}

func TestIsFresh(t *testing.T) {
	dir := t.TempDir()
	videoTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	newer := filepath.Join(dir, "newer.srt")
	same := filepath.Join(dir, "same.srt")
	older := filepath.Join(dir, "older.srt")
	testsupport.WriteFileAt(t, newer, "x", videoTime.Add(time.Minute))
	testsupport.WriteFileAt(t, same, "x", videoTime)
	testsupport.WriteFileAt(t, older, "x", videoTime.Add(-time.Second))

	assert.True(t, IsFresh(newer, videoTime).Fresh)
	assert.True(t, IsFresh(same, videoTime).Fresh, "equal mtime counts as fresh")

	stale := IsFresh(older, videoTime)
	assert.True(t, stale.Exists)
	assert.False(t, stale.Fresh)

	missing := IsFresh(filepath.Join(dir, "missing.srt"), videoTime)
	assert.False(t, missing.Exists)
	assert.False(t, missing.Fresh)

	assert.False(t, IsFresh("", videoTime).Fresh)

	sub := filepath.Join(dir, "dir.srt")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.False(t, IsFresh(sub, videoTime).Fresh, "directories are never artifacts")
}

func TestResolveTranscribeFreshWithoutArtifacts(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "a.mp4")
	testsupport.WriteFileAt(t, video, "video", time.Now().Add(-time.Hour))

	decision, err := Resolve(video, Options{BaseDir: filepath.Join(dir, "out"), Target: "es"})
	require.NoError(t, err)
	assert.Equal(t, TranscribeFresh, decision.Classification)
	assert.Equal(t, filepath.Join(dir, "out", "a.srt"), decision.Paths.Original)
	assert.Equal(t, filepath.Join(dir, "out", "a_es.srt"), decision.Paths.Translated)
	assert.Equal(t, "no subtitles found", decision.Reason())
}

func TestResolveReuseOriginal(t *testing.T) {
	dir := t.TempDir()
	videoTime := time.Now().Add(-time.Hour)
	video := filepath.Join(dir, "b.mp4")
	testsupport.WriteFileAt(t, video, "video", videoTime)
	testsupport.WriteFileAt(t, filepath.Join(dir, "b.srt"), "1\n", videoTime.Add(time.Second))

	decision, err := Resolve(video, Options{BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, ReuseOriginal, decision.Classification)
	assert.True(t, decision.Original.Fresh)
	assert.Empty(t, decision.Translated.Path)
}

func TestResolvePrefersTranslatedWhenBothFresh(t *testing.T) {
	dir := t.TempDir()
	videoTime := time.Now().Add(-time.Hour)
	video := filepath.Join(dir, "c.mkv")
	testsupport.WriteFileAt(t, video, "video", videoTime)
	testsupport.WriteFileAt(t, filepath.Join(dir, "c.srt"), "1\n", videoTime.Add(time.Second))
	testsupport.WriteFileAt(t, filepath.Join(dir, "c_fr.srt"), "1\n", videoTime.Add(time.Second))

	decision, err := Resolve(video, Options{BaseDir: dir, Target: "fr"})
	require.NoError(t, err)
	assert.Equal(t, ReuseTranslated, decision.Classification)
}

func TestResolveStaleArtifactsAreNeverReused(t *testing.T) {
	dir := t.TempDir()
	videoTime := time.Now().Add(-time.Hour)
	video := filepath.Join(dir, "d.mp4")
	testsupport.WriteFileAt(t, video, "video", videoTime)
	testsupport.WriteFileAt(t, filepath.Join(dir, "d.srt"), "1\n", videoTime.Add(-time.Millisecond*10))
	testsupport.WriteFileAt(t, filepath.Join(dir, "d_de.srt"), "1\n", videoTime.Add(-time.Minute))

	decision, err := Resolve(video, Options{BaseDir: dir, Target: "de"})
	require.NoError(t, err)
	assert.Equal(t, TranscribeFresh, decision.Classification)
	assert.True(t, decision.Original.Exists)
	assert.Equal(t, "original subtitles are older than the video", decision.Reason())

	decision, err = Resolve(video, Options{BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, TranscribeFresh, decision.Classification)
}

func TestResolveTranslateExistingWhenTranslationStale(t *testing.T) {
	dir := t.TempDir()
	videoTime := time.Now().Add(-time.Hour)
	video := filepath.Join(dir, "e.mp4")
	testsupport.WriteFileAt(t, video, "video", videoTime)
	testsupport.WriteFileAt(t, filepath.Join(dir, "e.srt"), "1\n", videoTime.Add(time.Minute))
	testsupport.WriteFileAt(t, filepath.Join(dir, "e_ja.srt"), "1\n", videoTime.Add(-time.Minute))

	decision, err := Resolve(video, Options{BaseDir: dir, Target: "ja"})
	require.NoError(t, err)
	assert.Equal(t, TranslateExisting, decision.Classification)
	assert.Equal(t, "original subtitles are current; translation is stale", decision.Reason())
}

func TestResolveMissingVideo(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.mp4"), Options{BaseDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveRejectsDirectory(t *testing.T) {
	_, err := Resolve(t.TempDir(), Options{BaseDir: t.TempDir()})
	assert.Error(t, err)
}

func TestResolveDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "f.mp4")
	testsupport.WriteFileAt(t, video, "video", time.Time{})
	base := filepath.Join(dir, "out")

	_, err := Resolve(video, Options{BaseDir: base, Target: "es"})
	require.NoError(t, err)
	_, err = os.Stat(base)
	assert.True(t, os.IsNotExist(err), "resolver must not create the base directory")
}

func TestStem(t *testing.T) {
	assert.Equal(t, "movie", Stem("/a/b/movie.mkv"))
	assert.Equal(t, "archive.tar", Stem("archive.tar.gz"))
	assert.Equal(t, "noext", Stem("noext"))
}
