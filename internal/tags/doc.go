// Package tags reads artist, title, and related metadata from audio files.
//
// WAV files are read from their RIFF LIST/INFO chunk with go-audio/wav. Other
// formats (ID3v1/v2, FLAC/Vorbis comments, MP4 atoms, OGG) go through
// dhowden/tag. When neither yields an artist or title, an optional ffprobe
// fallback is consulted. Each field is independently empty when absent.
package tags
