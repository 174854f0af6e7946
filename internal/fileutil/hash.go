package fileutil

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/spaolacci/murmur3"
)

// Digest algorithm names accepted by NewHasher.
const (
	DigestMD5     = "md5"
	DigestSHA256  = "sha256"
	DigestMurmur3 = "murmur3"
)

const hashBufferSize = 64 * 1024

// NewHasher returns a fresh hash for the named algorithm. An empty name selects md5.
func NewHasher(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "", DigestMD5:
		return md5.New(), nil
	case DigestSHA256:
		return sha256.New(), nil
	case DigestMurmur3:
		return murmur3.New128(), nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q", algorithm)
	}
}

// HashFile streams the full content of path through the named algorithm and
// returns the lowercase hex digest and the number of bytes read.
func HashFile(path, algorithm string) (string, int64, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	n, err := io.CopyBuffer(h, f, make([]byte, hashBufferSize))
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
