package tags

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cratekit/internal/media/ffprobe"
)

func riffChunk(id string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(id)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func buildWAV(info map[string]string) []byte {
	var fmtChunk bytes.Buffer
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(1))     // PCM
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(1))     // mono
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint32(8000))  // sample rate
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint32(16000)) // byte rate
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(2))     // block align
	_ = binary.Write(&fmtChunk, binary.LittleEndian, uint16(16))    // bits per sample

	var body bytes.Buffer
	body.WriteString("WAVE")
	body.Write(riffChunk("fmt ", fmtChunk.Bytes()))
	if len(info) > 0 {
		var list bytes.Buffer
		list.WriteString("INFO")
		for _, id := range []string{"IART", "INAM", "IPRD", "IGNR"} {
			if value, ok := info[id]; ok {
				list.Write(riffChunk(id, append([]byte(value), 0)))
			}
		}
		body.Write(riffChunk("LIST", list.Bytes()))
	}
	body.Write(riffChunk("data", make([]byte, 16)))

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func id3Frame(id, text string) []byte {
	var buf bytes.Buffer
	buf.WriteString(id)
	payload := append([]byte{0}, []byte(text)...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
	buf.Write([]byte{0, 0})
	buf.Write(payload)
	return buf.Bytes()
}

func buildMP3(frames map[string]string) []byte {
	var body bytes.Buffer
	for _, id := range []string{"TPE1", "TIT2", "TALB"} {
		if text, ok := frames[id]; ok {
			body.Write(id3Frame(id, text))
		}
	}
	size := body.Len()
	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{3, 0, 0})
	out.Write([]byte{byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f)})
	out.Write(body.Bytes())
	out.Write(bytes.Repeat([]byte{0xff, 0xfb, 0x90, 0x00}, 8))
	return out.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadWAVInfoChunk(t *testing.T) {
	path := writeFile(t, "track.WAV", buildWAV(map[string]string{
		"IART": "Moodymann",
		"INAM": "Shades Of Jae",
		"IPRD": "Silence",
	}))

	got, err := Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Artist != "Moodymann" || got.Title != "Shades Of Jae" || got.Album != "Silence" {
		t.Fatalf("unexpected tags: %+v", got)
	}
	if got.Source != SourceRIFFInfo {
		t.Fatalf("unexpected source %q", got.Source)
	}
}

func TestReadWAVWithoutInfo(t *testing.T) {
	path := writeFile(t, "bare.wav", buildWAV(nil))
	_, err := Read(context.Background(), path)
	if !errors.Is(err, ErrNoTags) {
		t.Fatalf("expected ErrNoTags, got %v", err)
	}
}

func TestReadID3(t *testing.T) {
	path := writeFile(t, "track.mp3", buildMP3(map[string]string{
		"TPE1": "Theo Parrish",
		"TIT2": "Falling Up",
		"TALB": "Parallel Dimensions",
	}))

	got, err := Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Artist != "Theo Parrish" || got.Title != "Falling Up" || got.Album != "Parallel Dimensions" {
		t.Fatalf("unexpected tags: %+v", got)
	}
	if got.Source != SourceEmbedded || !got.HasArtistAndTitle() {
		t.Fatalf("unexpected tags: %+v", got)
	}
}

func TestReadPartialID3KeepsPresentField(t *testing.T) {
	path := writeFile(t, "track.mp3", buildMP3(map[string]string{"TIT2": "Only Title"}))
	got, err := Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Artist != "" || got.Title != "Only Title" {
		t.Fatalf("unexpected tags: %+v", got)
	}
}

func TestReadFallsBackToFFprobe(t *testing.T) {
	path := writeFile(t, "untagged.mp3", bytes.Repeat([]byte{0xff, 0xfb, 0x90, 0x00}, 16))
	probe := func(ctx context.Context, p string) (ffprobe.Result, error) {
		if p != path {
			t.Fatalf("unexpected probe path %s", p)
		}
		return ffprobe.Parse([]byte(`{"format":{"format_name":"mp3","tags":{"artist":"Kerri Chandler","TITLE":"Rain"}},"streams":[{"codec_type":"audio","tags":{"language":"ger"}}]}`))
	}

	got, err := NewReader(WithProbe(probe)).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Artist != "Kerri Chandler" || got.Title != "Rain" || got.Language != "de" || got.Source != SourceFFprobe {
		t.Fatalf("unexpected tags: %+v", got)
	}
}

func TestReadFFprobeFailureReturnsNoTags(t *testing.T) {
	path := writeFile(t, "untagged.mp3", bytes.Repeat([]byte{0x00}, 64))
	probe := func(context.Context, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, errors.New("ffprobe missing")
	}
	_, err := NewReader(WithProbe(probe)).Read(context.Background(), path)
	if !errors.Is(err, ErrNoTags) {
		t.Fatalf("expected ErrNoTags, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMergePrefersPrimary(t *testing.T) {
	got := merge(Tags{Title: "Primary", Source: SourceEmbedded}, Tags{Artist: "Fallback", Title: "Other", Source: SourceFFprobe})
	if got.Title != "Primary" || got.Artist != "Fallback" || got.Source != SourceFFprobe {
		t.Fatalf("unexpected merge: %+v", got)
	}
}
