package tags

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"

	"cratekit/internal/language"
	"cratekit/internal/logging"
	"cratekit/internal/media/ffprobe"
)

// Source names which reader produced a Tags value.
const (
	SourceRIFFInfo = "riff-info"
	SourceEmbedded = "embedded"
	SourceFFprobe  = "ffprobe"
)

// ErrNoTags is returned when no reader found any metadata.
var ErrNoTags = errors.New("no readable tags found")

// Tags is the metadata cratekit cares about. Empty strings mean absent.
type Tags struct {
	Artist   string `json:"artist,omitempty"`
	Title    string `json:"title,omitempty"`
	Album    string `json:"album,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Year     int    `json:"year,omitempty"`
	Track    int    `json:"track,omitempty"`
	// Language is an ISO 639-1 code; only the ffprobe reader fills it.
	Language string `json:"language,omitempty"`
	Format   string `json:"format,omitempty"`
	Source   string `json:"source,omitempty"`
}

// HasArtistAndTitle reports whether both naming fields are present.
func (t Tags) HasArtistAndTitle() bool {
	return t.Artist != "" && t.Title != ""
}

// IsEmpty reports whether no text field is set.
func (t Tags) IsEmpty() bool {
	return t.Artist == "" && t.Title == "" && t.Album == "" && t.Genre == ""
}

// ProbeFunc inspects a file with ffprobe.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Reader reads tags with an optional ffprobe fallback.
type Reader struct {
	probe  ProbeFunc
	logger *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithProbe enables the ffprobe fallback.
func WithProbe(probe ProbeFunc) Option {
	return func(r *Reader) { r.probe = probe }
}

// WithFFprobeBinary enables the ffprobe fallback using the named binary.
func WithFFprobeBinary(binary string) Option {
	return func(r *Reader) {
		r.probe = func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, binary, path)
		}
	}
}

// WithLogger sets the logger for fallback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// NewReader constructs a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "tags")
	return r
}

// Read returns the tags of path. A file without any tags yields ErrNoTags.
func (r *Reader) Read(ctx context.Context, path string) (Tags, error) {
	var (
		result  Tags
		readErr error
	)
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		result, readErr = readWAV(path)
	} else {
		result, readErr = readEmbedded(path)
	}
	if readErr == nil && result.Artist != "" && result.Title != "" {
		return result, nil
	}

	if r.probe != nil {
		probed, err := r.readProbe(ctx, path)
		switch {
		case err == nil:
			return merge(result, probed), nil
		case ctx.Err() != nil:
			return Tags{}, ctx.Err()
		default:
			r.logger.Debug("ffprobe tag fallback failed", logging.String(logging.FieldPath, path), logging.Error(err))
		}
	}

	if readErr != nil && result.IsEmpty() {
		return Tags{}, fmt.Errorf("%w: %v", ErrNoTags, readErr)
	}
	if result.IsEmpty() {
		return result, ErrNoTags
	}
	return result, nil
}

// Read is a convenience wrapper for a Reader without ffprobe fallback.
func Read(ctx context.Context, path string) (Tags, error) {
	return NewReader().Read(ctx, path)
}

func readEmbedded(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, err
	}
	track, _ := meta.Track()
	artist := clean(meta.Artist())
	if artist == "" {
		artist = clean(meta.AlbumArtist())
	}
	return Tags{
		Artist: artist,
		Title:  clean(meta.Title()),
		Album:  clean(meta.Album()),
		Genre:  clean(meta.Genre()),
		Year:   meta.Year(),
		Track:  track,
		Format: string(meta.Format()),
		Source: SourceEmbedded,
	}, nil
}

func readWAV(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	return decodeWAVInfo(f)
}

func decodeWAVInfo(r io.ReadSeeker) (Tags, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Tags{}, errors.New("invalid wav file")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Tags{}, err
	}
	decoder = wav.NewDecoder(r)
	decoder.ReadMetadata()
	if err := decoder.Err(); err != nil && !errors.Is(err, io.EOF) {
		return Tags{}, err
	}
	meta := decoder.Metadata
	if meta == nil {
		return Tags{Format: "RIFF", Source: SourceRIFFInfo}, nil
	}
	track, _ := strconv.Atoi(clean(meta.TrackNbr))
	year, _ := strconv.Atoi(firstN(clean(meta.CreationDate), 4))
	return Tags{
		Artist: clean(meta.Artist),
		Title:  clean(meta.Title),
		Album:  clean(meta.Product),
		Genre:  clean(meta.Genre),
		Year:   year,
		Track:  track,
		Format: "RIFF",
		Source: SourceRIFFInfo,
	}, nil
}

func (r *Reader) readProbe(ctx context.Context, path string) (Tags, error) {
	result, err := r.probe(ctx, path)
	if err != nil {
		return Tags{}, err
	}
	artist := result.Tag("artist")
	if artist == "" {
		artist = result.Tag("album_artist")
	}
	year, _ := strconv.Atoi(firstN(result.Tag("date"), 4))
	track, _ := strconv.Atoi(strings.SplitN(result.Tag("track"), "/", 2)[0])
	lang := language.ExtractFromTags(result.Format.Tags)
	if stream, ok := result.AudioStream(); ok && lang == "" {
		lang = language.ExtractFromTags(stream.Tags)
	}
	return Tags{
		Artist:   clean(artist),
		Title:    clean(result.Tag("title")),
		Album:    clean(result.Tag("album")),
		Genre:    clean(result.Tag("genre")),
		Year:     year,
		Track:    track,
		Language: language.ToISO2(lang),
		Format:   result.Format.FormatName,
		Source:   SourceFFprobe,
	}, nil
}

// merge fills the empty fields of primary from fallback.
func merge(primary, fallback Tags) Tags {
	out := primary
	if out.Artist == "" {
		out.Artist = fallback.Artist
	}
	if out.Title == "" {
		out.Title = fallback.Title
	}
	if out.Album == "" {
		out.Album = fallback.Album
	}
	if out.Genre == "" {
		out.Genre = fallback.Genre
	}
	if out.Year == 0 {
		out.Year = fallback.Year
	}
	if out.Track == 0 {
		out.Track = fallback.Track
	}
	if out.Language == "" {
		out.Language = fallback.Language
	}
	if out.Format == "" {
		out.Format = fallback.Format
	}
	if primary.Artist == "" || primary.Title == "" {
		if fallback.Artist != "" || fallback.Title != "" {
			out.Source = fallback.Source
		}
	}
	return out
}

func clean(value string) string {
	value = strings.TrimRight(value, "\x00")
	return strings.TrimSpace(value)
}

func firstN(value string, n int) string {
	if len(value) < n {
		return value
	}
	return value[:n]
}
