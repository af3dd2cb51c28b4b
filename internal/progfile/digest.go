package progfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Digest is a SHA-256 of the target file a program was generated from.
type Digest [32]byte

// DigestFile hashes the file at path.
func DigestFile(path string) (Digest, error) {
	// #nosec G304 -- path is the user-selected target file
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to hash %q: %w", path, err)
	}
	return sha256.Sum256(data), nil
}

// IsZero reports whether d is unset.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText encodes d as lowercase hex.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a hex digest.
func (d *Digest) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Digest{}
		return nil
	}
	n, err := hex.Decode(d[:], text)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if n != len(d) {
		return fmt.Errorf("digest: got %d bytes, want %d", n, len(d))
	}
	return nil
}
