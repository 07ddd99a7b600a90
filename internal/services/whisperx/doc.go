// Package whisperx wraps the media tools used to turn a video into timed
// text.
//
// ExtractAudio probes the video with ffprobe, picks the dialogue stream and
// has ffmpeg write it as mono 16 kHz PCM. Transcribe runs WhisperX through
// uvx and converts its JSON output into subtitle segments. Calls made under
// services.WithQuiet capture tool output instead of streaming it and disable
// Python warnings for the child process only.
package whisperx
