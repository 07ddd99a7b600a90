// Package history keeps a SQLite ledger of pipeline runs.
//
// Each run stores its identifier, target language, timing, and one row per
// video with the cache classification, final state, chosen subtitle, and
// failure details. The CLI records a run after it finishes and reads the
// ledger back for `autosubtitle history`.
package history
