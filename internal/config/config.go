// Package config finds and loads the callgen.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"callgen/internal/gen"
)

// FileName is the project file looked up by Find.
const FileName = "callgen.toml"

var (
	// ErrGenSectionMissing indicates that [gen] is missing.
	ErrGenSectionMissing = errors.New("missing [gen]")
	// ErrKeyMissing indicates that a required key is missing.
	ErrKeyMissing = errors.New("missing required key")
)

// File is a loaded project file.
type File struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Gen    GenSection    `toml:"gen"`
	Target TargetSection `toml:"target"`
	Batch  BatchSection  `toml:"batch"`
}

// GenSection holds the generation bounds. Every key is required.
type GenSection struct {
	ProgMaxLen   int `toml:"prog_max_len"`
	StrMinLen    int `toml:"str_min_len"`
	StrMaxLen    int `toml:"str_max_len"`
	PathMaxDepth int `toml:"path_max_depth"`
}

// TargetSection names the target description, relative to the project root.
type TargetSection struct {
	Path string `toml:"path"`
}

// BatchSection holds batch defaults; zero values mean "use the CLI default".
type BatchSection struct {
	Count int    `toml:"count"`
	Jobs  int    `toml:"jobs"`
	Seed  uint64 `toml:"seed"`
	// HasSeed records whether seed was given explicitly.
	HasSeed bool `toml:"-"`
}

var requiredGenKeys = []string{"prog_max_len", "str_min_len", "str_max_len", "path_max_depth"}

// Find walks up from startDir to locate callgen.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses a project file and checks that [gen] is complete.
func Load(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("gen") {
		return nil, fmt.Errorf("%s: %w", path, ErrGenSectionMissing)
	}
	var missing []string
	for _, key := range requiredGenKeys {
		if !meta.IsDefined("gen", key) {
			missing = append(missing, "[gen]."+key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", path, ErrKeyMissing, strings.Join(missing, ", "))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	f.Batch.HasSeed = meta.IsDefined("batch", "seed")
	f.Path = path
	f.Root = filepath.Dir(path)
	return &f, nil
}

// Discover finds and loads the project file above startDir, if any.
func Discover(startDir string) (*File, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	f, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return f, true, nil
}

// GenConfig returns the generation bounds.
func (f *File) GenConfig() gen.Config {
	return gen.Config{
		ProgMaxLen:   f.Gen.ProgMaxLen,
		StrMinLen:    f.Gen.StrMinLen,
		StrMaxLen:    f.Gen.StrMaxLen,
		PathMaxDepth: f.Gen.PathMaxDepth,
	}
}

// TargetPath resolves [target].path against the project root. It returns
// "" when no target is configured.
func (f *File) TargetPath() string {
	p := strings.TrimSpace(f.Target.Path)
	if p == "" {
		return ""
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.Root, p)
}
