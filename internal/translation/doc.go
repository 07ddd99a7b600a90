// Package translation turns subtitle text into a target language.
//
// Adapter wraps an opaque Client and adds the rules every provider shares:
// whitespace-only text never reaches the provider, provider failures surface
// as ErrTranslationFailed, and segment translation returns a new slice so the
// source subtitles stay untouched. GoogleClient and LLMClient are the two
// concrete providers; NewClient picks one from configuration.
package translation
