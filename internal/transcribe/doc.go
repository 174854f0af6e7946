// Package transcribe turns audio files into timestamped transcripts.
//
// Each source goes through a Transcriber (WhisperX in production) and the
// result is written to the transcript directory as <stem>_<timestamp>.txt
// with one "[mm:ss.mmm -> mm:ss.mmm] text" line per segment, plus a JSON
// twin. An optional Summarizer appends a short LLM summary.
package transcribe
