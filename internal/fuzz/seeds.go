package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB cap per corpus entry
	maxFuzzInput = 4 << 10
)

// targetsRoot holds the sample target files used as seeds.
var targetsRoot = filepath.Join("..", "target", "testdata")

func addTargetSeeds(f *testing.F) {
	if _, err := os.Stat(targetsRoot); err != nil {
		return
	}
	_ = filepath.WalkDir(targetsRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".toml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	f.Add([]byte{})
	f.Add([]byte("[[type]]\nname = \"u8\"\nkind = \"num\"\nwidth = 8\n\n[[group]]\nname = \"g\"\n  [[group.fn]]\n  name = \"f\"\n  params = [{ name = \"x\", type = \"u8\" }]\n"))
}

func addRandomnessSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	seq := make([]byte, 256)
	for i := range seq {
		seq[i] = byte(i * 7)
	}
	f.Add(seq)
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
