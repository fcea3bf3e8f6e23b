package objectstore

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// Checksum returns the base64 SHA-256 of data, as PutOptions.Checksum expects.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// readVerified buffers body and returns it with its checksum and ETag,
// failing when opts names a different checksum.
func readVerified(body io.Reader, opts *PutOptions) (data []byte, checksum, etag string, err error) {
	var buf bytes.Buffer
	hash := sha256.New()
	if _, err := io.Copy(&buf, io.TeeReader(body, hash)); err != nil {
		return nil, "", "", err
	}
	sum := hash.Sum(nil)
	checksum = base64.StdEncoding.EncodeToString(sum)
	if opts != nil && opts.Checksum != "" && checksum != opts.Checksum {
		return nil, "", "", fmt.Errorf("%w: expected %s, got %s", ErrChecksumFailed, opts.Checksum, checksum)
	}
	return buf.Bytes(), checksum, fmt.Sprintf("%x", sum[:16]), nil
}

func contentType(opts *PutOptions) string {
	if opts == nil {
		return ""
	}
	return opts.ContentType
}
