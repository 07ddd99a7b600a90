// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and returns a Result with stream and container
// metadata. The helpers cover what audio extraction needs: the audio streams,
// their tags and dispositions, and the container duration.
package ffprobe
