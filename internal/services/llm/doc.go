// Package llm provides an OpenRouter chat client used for track naming and
// transcript summaries.
//
// The rename tool calls SuggestTrackName when a file lacks artist or title
// tags. The transcribe tool calls Summarize when summaries are enabled.
// Both requests ask for a JSON object; DecodeLLMJSON tolerates code fences
// and surrounding prose.
//
// # Configuration
//
// Requires api_key and model, and optionally base_url, referer, title and
// timeout. When unconfigured, callers skip the LLM step entirely.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions and
// network timeouts with exponential backoff (base 1s, max 10s, up to 5
// attempts by default). Context cancellation aborts retries immediately.
package llm
