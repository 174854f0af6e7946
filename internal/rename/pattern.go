package rename

import (
	"fmt"
	"strconv"
	"strings"

	"cratekit/internal/tags"
	"cratekit/internal/textutil"
)

// DefaultPattern names files "Artist - Title".
const DefaultPattern = "{artist} - {title}"

// Fields are the sanitized values substituted into a pattern.
type Fields struct {
	Artist string
	Title  string
	Album  string
	Genre  string
	Year   int
	Track  int
}

func fieldsFromTags(t tags.Tags, artist, title string, titleCase bool) Fields {
	return Fields{
		Artist: textutil.SanitizeComponent(artist, titleCase),
		Title:  textutil.SanitizeComponent(title, titleCase),
		Album:  textutil.SanitizeComponent(t.Album, titleCase),
		Genre:  textutil.SanitizeComponent(t.Genre, titleCase),
		Year:   t.Year,
		Track:  t.Track,
	}
}

// Format expands pattern placeholders. Unknown placeholders are left as-is;
// empty fields render empty and the resulting whitespace is collapsed.
func Format(pattern string, f Fields) string {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	var year, track string
	if f.Year > 0 {
		year = strconv.Itoa(f.Year)
	}
	if f.Track > 0 {
		track = fmt.Sprintf("%02d", f.Track)
	}
	out := strings.NewReplacer(
		"{artist}", f.Artist,
		"{title}", f.Title,
		"{album}", f.Album,
		"{genre}", f.Genre,
		"{year}", year,
		"{track}", track,
	).Replace(pattern)
	return textutil.SanitizeFileName(out)
}
