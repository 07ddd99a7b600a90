// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and the current video
//     for logging, plus the quiet scope that silences tool chatter.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified consistently in reports and the run history.
//
// Integrations live in subpackages (whisperx, llm, googletranslate).
package services
