// Package library enumerates audio tracks under a user-supplied directory.
//
// Scan walks the tree in lexical order, keeps regular files whose extension is
// in the allow-list, and skips excluded subtrees such as the quarantine root.
// Unreadable directories and entries are reported as warnings rather than
// aborting the walk, so one bad folder never hides the rest of a crate.
package library
