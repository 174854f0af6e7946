package textutil

import "testing"

func TestSanitizeComponent(t *testing.T) {
	tests := []struct {
		in        string
		titleCase bool
		want      string
	}{
		{"", true, ""},
		{"AC/DC", false, "AC-DC"},
		{`What? "Now" <Live>`, true, `What- -Now- -Live-`},
		{"  Too    many   spaces  ", true, "Too many spaces"},
		{"Trailing dots...", true, "Trailing dots"},
		{"DAFT PUNK", true, "Daft Punk"},
		{"DAFT PUNK", false, "DAFT PUNK"},
		{"Mixed CASE", true, "Mixed CASE"},
		{"1999", true, "1999"},
		{"tab\there", true, "tab here"},
		{"BJÖRK", true, "Björk"},
		{" . ", true, ""},
	}
	for _, tt := range tests {
		if got := SanitizeComponent(tt.in, tt.titleCase); got != tt.want {
			t.Fatalf("SanitizeComponent(%q, %v) = %q, want %q", tt.in, tt.titleCase, got, tt.want)
		}
	}
}

func TestIsAllCaps(t *testing.T) {
	if !IsAllCaps("MK 2") || IsAllCaps("123") || IsAllCaps("Mk") {
		t.Fatal("unexpected IsAllCaps result")
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName("  Artist: Title?.mp3 "); got != "Artist- Title-.mp3" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
}
