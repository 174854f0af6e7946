// Package language normalizes language codes reported by WhisperX and found
// in audio metadata, and renders them as English display names.
package language
