// Package audio chooses which audio stream of a video is fed to speech
// recognition. It depends only on internal/media/ffprobe and the language
// code helpers.
package audio
