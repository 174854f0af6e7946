// Package fileutil holds the filesystem primitives the cratekit tools share:
// streaming content digests, no-clobber moves that refuse to cross devices,
// collision-free destination naming, and atomic writes for run logs.
package fileutil
