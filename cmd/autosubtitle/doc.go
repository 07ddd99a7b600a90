// Command autosubtitle transcribes videos with WhisperX, optionally
// translates the subtitles, and burns them into new MP4 renditions.
//
// Subcommands:
//   - run: process videos (the default workflow)
//   - plan: show what a run would reuse or regenerate, without running tools
//   - check: verify external tools, directories and the translation provider
//   - history: list recorded runs and their per-video outcomes
//   - config init|validate: manage the TOML configuration file
package main
