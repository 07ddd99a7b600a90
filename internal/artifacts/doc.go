// Package artifacts decides which subtitle files from earlier runs can be
// reused for a video.
//
// Each video has at most two artifacts in the base directory: the original
// transcript <stem>.srt and the translated transcript <stem>_<target>.srt.
// An artifact is fresh when it exists and is at least as new as the video.
// Classify turns the two freshness flags into one of four actions; Resolve
// gathers the flags from disk. Nothing in this package writes files.
package artifacts
