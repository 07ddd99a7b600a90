// Package subtitles models timed subtitle segments and their SRT form.
//
// It owns the timestamp codec, the SRT reader and writer used for cached
// artifacts, atomic artifact file helpers, a best-effort language guess for
// segment text, and the ffmpeg muxer that burns a subtitle file into a video.
package subtitles
