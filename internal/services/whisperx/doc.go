// Package whisperx runs WhisperX through uvx to transcribe audio files.
//
// Sources are first downmixed by ffmpeg to a mono 16 kHz WAV in a work
// directory, then handed to WhisperX with JSON output. The resulting
// segments and detected language are returned as a Transcript.
//
// Both external commands go through a swappable runner so tests never need
// ffmpeg or Python installed.
package whisperx
