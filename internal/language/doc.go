// Package language provides language code normalization for autosubtitle.
//
// It maps between ISO 639 code forms and display names, validates translation
// targets as BCP 47 tags, and knows which source-language hints the Whisper
// recognizer accepts.
package language
