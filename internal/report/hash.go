package report

import (
	"crypto/md5"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/zeebo/blake3"
)

var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithm names the content hash recorded for every carved file.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	BLAKE3 Algorithm = "blake3"

	DefaultAlgorithm = MD5
)

func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case MD5, SHA256, SHA512, BLAKE3:
		return a, nil
	case "":
		return DefaultAlgorithm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// New returns a fresh hasher for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil
	case SHA256:
		return digest.SHA256.Hash(), nil
	case SHA512:
		return digest.SHA512.Hash(), nil
	case BLAKE3:
		return blake3.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
}

// Encode returns the lowercase hex representation of the hasher's sum.
func (a Algorithm) Encode(h hash.Hash) string {
	switch a {
	case SHA256, SHA512:
		return digest.NewDigest(digest.Algorithm(a), h).Encoded()
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Validate checks that encoded is a well-formed hash value for a.
func (a Algorithm) Validate(encoded string) error {
	switch a {
	case SHA256, SHA512:
		return digest.Algorithm(a).Validate(encoded)
	case MD5, BLAKE3:
		size := md5.Size
		if a == BLAKE3 {
			size = 32
		}
		b, err := hex.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("invalid %s hash %q: %w", a, encoded, err)
		}
		if len(b) != size {
			return fmt.Errorf("invalid %s hash %q: expected %d bytes, got %d", a, encoded, size, len(b))
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
}

// Sum hashes data in one shot.
func (a Algorithm) Sum(data []byte) (string, error) {
	h, err := a.New()
	if err != nil {
		return "", err
	}
	h.Write(data)
	return a.Encode(h), nil
}
