// Package progfile stores generated programs on disk as msgpack records and
// exports them as JSON.
package progfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"callgen/internal/prog"
)

// SchemaVersion is bumped whenever Record changes shape.
const SchemaVersion uint16 = 1

// Ext is the extension of stored records.
const Ext = ".mp"

// ErrSchemaMismatch reports a record written by an incompatible version.
var ErrSchemaMismatch = errors.New("progfile: schema version mismatch")

// Record is one stored program with the inputs needed to reproduce it.
type Record struct {
	Schema uint16 `msgpack:"schema" json:"schema"`

	// Tool is the callgen version that generated the program.
	Tool   string `msgpack:"tool" json:"tool"`
	Target string `msgpack:"target" json:"target"`
	Digest Digest `msgpack:"digest" json:"digest"`
	Seed   uint64 `msgpack:"seed" json:"seed"`
	Index  int    `msgpack:"index" json:"index"`

	Prog *prog.Prog `msgpack:"prog" json:"prog"`
}

// Store writes records into one directory. Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("progfile: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// PathFor returns the file that holds program index.
func (s *Store) PathFor(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("prog-%06d%s", index, Ext))
}

// Put writes rec atomically and returns its path.
func (s *Store) Put(rec *Record) (path string, err error) {
	if rec == nil || rec.Prog == nil {
		return "", errors.New("progfile: nil record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Schema = SchemaVersion
	path = s.PathFor(rec.Index)
	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(rec); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Get reads program index. ok is false when no record exists.
func (s *Store) Get(index int) (*Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := Load(s.PathFor(index))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return rec, true, nil
}

// List returns the stored record paths in index order.
func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "prog-") || filepath.Ext(e.Name()) != Ext {
			continue
		}
		out = append(out, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Load decodes a record file.
func Load(path string) (*Record, error) {
	// #nosec G304 -- path is chosen by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads one record from r and checks its schema.
func Decode(r io.Reader) (*Record, error) {
	var rec Record
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("progfile: decode: %w", err)
	}
	if rec.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, rec.Schema, SchemaVersion)
	}
	if rec.Prog == nil {
		return nil, errors.New("progfile: record without program")
	}
	return &rec, nil
}

// Encode writes one record to w in msgpack form.
func Encode(w io.Writer, rec *Record) error {
	rec.Schema = SchemaVersion
	return msgpack.NewEncoder(w).Encode(rec)
}

// WriteJSON writes rec as indented JSON.
func WriteJSON(w io.Writer, rec *Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
