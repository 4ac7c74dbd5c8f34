package importer

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
)

// hashChunkSize is the read size used when streaming file content into the digest.
const hashChunkSize = 32 * 1024

// HashReader digests namespace followed by everything read from r and
// returns a 32 character hex string. Identical namespace and bytes always
// give the same digest.
func HashReader(namespace string, r io.Reader) (string, error) {
	h := md5.New()
	_, _ = io.WriteString(h, namespace)
	buf := make([]byte, hashChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes is HashReader over an in-memory payload.
func HashBytes(namespace string, data []byte) string {
	h := md5.New()
	_, _ = io.WriteString(h, namespace)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HashFile digests the content of path on fsys under namespace.
func HashFile(fsys billy.Filesystem, namespace, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s for hashing: %w", path, err)
	}
	defer f.Close()
	sum, err := HashReader(namespace, f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}
