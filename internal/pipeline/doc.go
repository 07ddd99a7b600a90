// Package pipeline turns a batch of videos into subtitled videos while
// reusing subtitle artifacts from earlier runs.
//
// A run classifies every video against the artifact cache, translates
// existing transcripts where it can, transcribes the rest, chooses one
// subtitle file per video (the embed map) and burns it in. Videos are
// processed sequentially and in isolation: a failure is recorded on that
// video's result and the run moves on. Run only returns an error when the
// run itself cannot proceed (directories, the artifact lock, cancellation).
//
// Speech recognition, translation and muxing are collaborators supplied
// through Dependencies, which keeps the orchestration testable with fakes.
package pipeline
