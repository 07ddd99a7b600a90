// Package llm provides an OpenRouter-compatible chat client used as an
// alternative subtitle translation provider.
//
// Requests ask for JSON-only responses. DecodeLLMJSON tolerates code fences
// and surrounding prose. The client retries HTTP 408/429/5xx responses, empty
// completions and network timeouts with exponential backoff; context
// cancellation aborts retries immediately.
//
// Entry points: NewClient, Client.TranslateText, Client.CompleteJSON and
// Client.HealthCheck (used by the check command).
package llm
