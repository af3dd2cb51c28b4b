package gen

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"callgen/internal/prog"
	"callgen/internal/rng"
	"callgen/internal/types"
)

var testConf = Config{ProgMaxLen: 8, StrMinLen: 2, StrMaxLen: 6, PathMaxDepth: 3}

func newTestState(cat *types.Catalog, seed uint64) *state {
	return newState(cat, &testConf, prog.New(0), rng.New(seed))
}

func TestNumbersStayWithinConstraints(t *testing.T) {
	c := types.NewCatalog()
	tests := []struct {
		name string
		id   types.TypeID
		ok   func(prog.NumValue) bool
	}{
		{
			"u8 full",
			c.Add(types.MakeNum(types.Width8, false, types.NoLimit())),
			func(n prog.NumValue) bool { return !n.Signed && n.Uint64() < 256 },
		},
		{
			"i8 full",
			c.Add(types.MakeNum(types.Width8, true, types.NoLimit())),
			func(n prog.NumValue) bool { return n.Signed && n.Int64() >= -128 && n.Int64() <= 127 },
		},
		{
			"i16 range",
			c.Add(types.MakeNum(types.Width16, true, types.Range(-5, 5))),
			func(n prog.NumValue) bool { return n.Signed && n.Int64() >= -5 && n.Int64() < 5 },
		},
		{
			"u32 range",
			c.Add(types.MakeNum(types.Width32, false, types.URange(10, 12))),
			func(n prog.NumValue) bool { return !n.Signed && (n.Uint64() == 10 || n.Uint64() == 11) },
		},
		{
			"i32 vals",
			c.Add(types.MakeNum(types.Width32, true, types.Vals(-1, 7))),
			func(n prog.NumValue) bool { return n.Int64() == -1 || n.Int64() == 7 },
		},
		{
			"usize",
			c.Add(types.MakeNum(types.WidthSize, false, types.NoLimit())),
			func(n prog.NumValue) bool { return !n.Signed },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(c, 11)
			for range 2000 {
				v := s.value(tt.id)
				if v.Kind != prog.ValNum {
					t.Fatalf("expected a number, got %v", v.Kind)
				}
				if !tt.ok(v.Num) {
					t.Fatalf("value %s violates the constraint", v.Num)
				}
			}
		})
	}
}

func TestNumberRangeCoversAllValues(t *testing.T) {
	c := types.NewCatalog()
	id := c.Add(types.MakeNum(types.Width8, true, types.Range(-2, 2)))
	s := newTestState(c, 5)
	seen := make(map[int64]bool)
	for range 500 {
		seen[s.value(id).Num.Int64()] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected all 4 values of [-2, 2), got %v", seen)
	}
}

func TestUnionPicksFieldsUniformly(t *testing.T) {
	c := types.NewCatalog()
	u8 := c.Add(types.MakeNum(types.Width8, false, types.NoLimit()))
	un := c.Add(types.MakeUnion(
		types.Field{Name: "a", Type: u8},
		types.Field{Name: "b", Type: u8},
		types.Field{Name: "c", Type: u8},
	))
	s := newTestState(c, 21)
	const draws = 9000
	var counts [3]int
	for range draws {
		v := s.value(un)
		if v.Kind != prog.ValChoice || v.Inner == nil {
			t.Fatalf("expected a choice, got %+v", v)
		}
		counts[v.Choice]++
	}
	for i, n := range counts {
		if rate := float64(n) / draws; rate < 0.30 || rate > 0.37 {
			t.Fatalf("field %d: expected rate near 1/3, got %.3f", i, rate)
		}
	}
}

func TestFlagsRawRate(t *testing.T) {
	c := types.NewCatalog()
	fl := c.Add(types.MakeFlag(
		types.Flag{Name: "A", Value: 1},
		types.Flag{Name: "B", Value: 2},
		types.Flag{Name: "C", Value: 4},
	))
	s := newTestState(c, 8)
	const draws = 20000
	raw := 0
	for range draws {
		v := s.value(fl)
		if !v.Num.Signed {
			t.Fatalf("expected signed flag value, got %+v", v.Num)
		}
		switch v.Num.Int64() {
		case 0, 1, 2, 4:
		default:
			raw++
		}
	}
	if rate := float64(raw) / draws; rate < 0.18 || rate > 0.22 {
		t.Fatalf("expected raw rate near 0.2, got %.3f", rate)
	}
}

func TestRawFlagIsSignExtended32Bit(t *testing.T) {
	c := types.NewCatalog()
	fl := c.Add(types.MakeFlag(types.Flag{Name: "A", Value: 1}))
	s := newTestState(c, 13)
	for range 5000 {
		v := s.value(fl).Num.Int64()
		if v < -1<<31 || v >= 1<<31 {
			t.Fatalf("expected a 32-bit value, got %d", v)
		}
	}
}

func TestStringLengths(t *testing.T) {
	c := types.NewCatalog()
	text := c.Add(types.MakeStr(types.StrText))
	ctext := c.Add(types.MakeStr(types.StrCText))
	s := newTestState(c, 17)
	for range 2000 {
		v := s.value(text).Str
		if !utf8.ValidString(v) {
			t.Fatalf("expected valid UTF-8, got %q", v)
		}
		if n := utf8.RuneCountInString(v); n < testConf.StrMinLen || n >= testConf.StrMaxLen {
			t.Fatalf("expected %d..%d runes, got %d", testConf.StrMinLen, testConf.StrMaxLen, n)
		}
		w := s.value(ctext).Str
		if n := len(w); n < testConf.StrMinLen || n >= testConf.StrMaxLen {
			t.Fatalf("expected %d..%d bytes, got %q", testConf.StrMinLen, testConf.StrMaxLen, w)
		}
		if strings.Trim(w, alphanumeric) != "" {
			t.Fatalf("expected alphanumeric text, got %q", w)
		}
	}
}

func TestFixedStringValues(t *testing.T) {
	c := types.NewCatalog()
	tests := []struct {
		name string
		kind types.StrKind
	}{
		{"text", types.StrText},
		{"ctext", types.StrCText},
		{"path", types.StrPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := c.Add(types.MakeStr(tt.kind, "x", "yy"))
			s := newTestState(c, 2)
			for range 200 {
				if v := s.value(id).Str; v != "x" && v != "yy" {
					t.Fatalf("expected a fixed value, got %q", v)
				}
			}
		})
	}
}

func TestPathsAreRootedAndReused(t *testing.T) {
	c := types.NewCatalog()
	path := c.Add(types.MakeStr(types.StrPath))
	s := newTestState(c, 4)
	sep := string(os.PathSeparator)
	seen := make(map[string]int)
	for range 400 {
		p := s.value(path).Str
		seen[p]++
		if !strings.HasPrefix(p, "."+sep) && !strings.HasPrefix(p, sep) {
			t.Fatalf("expected a rooted path, got %q", p)
		}
		segs := strings.Split(strings.TrimPrefix(strings.TrimPrefix(p, "."), sep), sep)
		if len(segs) < 1 || len(segs) > testConf.PathMaxDepth {
			t.Fatalf("expected 1..%d segments, got %q", testConf.PathMaxDepth, p)
		}
		for _, seg := range segs {
			if len(seg) < testConf.StrMinLen || len(seg) >= testConf.StrMaxLen {
				t.Fatalf("segment %q of %q has bad length", seg, p)
			}
		}
	}
	pool := len(s.strs[types.StrPath])
	if pool < len(seen) {
		t.Fatalf("expected every new path pooled, pool %d distinct %d", pool, len(seen))
	}
	if reused := 400 - pool; reused < 150 || reused > 250 {
		t.Fatalf("expected about half of the paths reused, got %d of 400", reused)
	}
}

func TestSliceLengths(t *testing.T) {
	const unb = types.SliceUnbounded
	tests := []struct {
		name      string
		low, high int
		min, max  int
	}{
		{"unbounded", unb, unb, 0, 8},
		{"upper only", 3, unb, 0, 3},
		{"high only", unb, 5, 0, 5},
		{"interval", 2, 4, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rng.New(6)
			seen := make(map[int]bool)
			for range 1000 {
				n := sliceLen(tt.low, tt.high, r)
				if n < tt.min || n >= tt.max {
					t.Fatalf("expected length in [%d, %d), got %d", tt.min, tt.max, n)
				}
				seen[n] = true
			}
			if len(seen) != tt.max-tt.min {
				t.Fatalf("expected every length in [%d, %d), got %v", tt.min, tt.max, seen)
			}
		})
	}
}

func TestStructFieldsInOrder(t *testing.T) {
	c := types.NewCatalog()
	one := c.Add(types.MakeNum(types.Width8, false, types.UVals(1)))
	str := c.Add(types.MakeStr(types.StrText, "s"))
	st := c.Add(types.MakeStruct(types.Field{Name: "a", Type: one}, types.Field{Name: "b", Type: str}))
	v := newTestState(c, 1).value(st)
	if v.Kind != prog.ValGroup || len(v.Elems) != 2 {
		t.Fatalf("expected a two-field group, got %+v", v)
	}
	if v.Elems[0].Num.Uint64() != 1 || v.Elems[1].Str != "s" {
		t.Fatalf("expected [1, \"s\"], got %+v", v.Elems)
	}
}

func TestOutPointerUsesDefault(t *testing.T) {
	c := types.NewCatalog()
	i32 := c.Add(types.MakeNum(types.Width32, true, types.Range(5, 9)))
	fd := c.Add(types.MakeRes(i32))
	out := c.Add(types.MakePtr(types.DirOut, fd))
	in := c.Add(types.MakePtr(types.DirIn, i32))

	s := newTestState(c, 3)
	s.call, s.argi = 0, 2
	v := s.value(out)
	if v.Kind != prog.ValNum || !v.Num.Signed || v.Num.Int64() != 0 {
		t.Fatalf("expected signed zero default, got %+v", v)
	}
	if len(s.pending) != 1 || s.pending[0].tid != fd || s.pending[0].idx != (prog.ArgIndex{Call: 0, Arg: 2}) {
		t.Fatalf("expected the out slot to be a pending producer, got %+v", s.pending)
	}
	if got := s.res.producers(fd); len(got) != 0 {
		t.Fatalf("expected no committed producers before the call ends, got %v", got)
	}
	if w := s.value(in).Num.Int64(); w < 5 || w >= 9 {
		t.Fatalf("expected in-pointer to carry a fresh value in [5, 9), got %d", w)
	}
}

func TestResourceReferencesProducer(t *testing.T) {
	c := types.NewCatalog()
	i32 := c.Add(types.MakeNum(types.Width32, true, types.NoLimit()))
	fd := c.Add(types.MakeRes(i32))
	alias := c.Add(types.MakeAlias(fd))

	s := newTestState(c, 9)
	if v := s.value(fd); v.Kind != prog.ValNum {
		t.Fatalf("expected a fresh number without producers, got %v", v.Kind)
	}
	s.call, s.argi = 0, 1
	s.recordRes(fd)
	s.commitRes()
	s.call = 1
	for range 50 {
		v := s.value(fd)
		if v.Kind != prog.ValRef || v.Ref != (prog.ArgIndex{Call: 0, Arg: 1}) {
			t.Fatalf("expected reference to c0.a1, got %+v", v)
		}
	}
	// producers are keyed by the exact type
	if v := s.value(alias); v.Kind != prog.ValNum {
		t.Fatalf("expected alias without its own producers to synthesize, got %v", v.Kind)
	}

	s.argi = 0
	s.recordRes(alias)
	s.commitRes()
	s.call = 2
	for range 50 {
		v := s.value(alias)
		if v.Kind != prog.ValRef || v.Ref != (prog.ArgIndex{Call: 1, Arg: 0}) {
			t.Fatalf("expected alias reference to c1.a0, got %+v", v)
		}
	}
}

func TestPlainAliasNeverReferences(t *testing.T) {
	c := types.NewCatalog()
	i32 := c.Add(types.MakeNum(types.Width32, true, types.NoLimit()))
	plain := c.Add(types.MakeAlias(i32))
	if c.IsResource(plain) {
		t.Fatalf("expected alias of a number to be resource-free")
	}

	s := newTestState(c, 4)
	s.call, s.argi = 0, 0
	s.recordRes(plain)
	s.commitRes()
	s.call = 1
	for range 50 {
		if v := s.value(plain); v.Kind != prog.ValNum {
			t.Fatalf("expected a fresh number, got %+v", v)
		}
	}
}

func TestLenPlaceholder(t *testing.T) {
	c := types.NewCatalog()
	u8 := c.Add(types.MakeNum(types.Width8, false, types.NoLimit()))
	ln := c.Add(types.MakeLen(u8, true, "buf"))
	v := newTestState(c, 1).value(ln)
	if v.Kind != prog.ValNum || v.Num.Signed || v.Num.Uint64() != 0 {
		t.Fatalf("expected unsigned zero, got %+v", v)
	}
}
