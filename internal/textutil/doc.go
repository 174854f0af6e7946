// Package textutil provides filename sanitization for names built from tag
// metadata.
//
// Components are cleaned for every mainstream filesystem: characters Windows
// forbids become dashes, runs of whitespace collapse to one space, trailing
// dots and spaces are removed, and shouted ALL CAPS text can be converted to
// Title Case.
package textutil
