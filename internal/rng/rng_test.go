package rng

import "testing"

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d: expected equal values, got %d and %d", i, x, y)
		}
	}
}

func TestDeriveSeparatesStreams(t *testing.T) {
	a, b := Derive(7, 0), Derive(7, 1)
	same := 0
	for i := 0; i < 32; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 32 {
		t.Fatalf("derived streams must differ")
	}
	c := Derive(7, 1)
	d := Derive(7, 1)
	if c.Uint64() != d.Uint64() {
		t.Fatalf("derive must depend only on seed and index")
	}
}

func TestBetweenStaysInRange(t *testing.T) {
	r := New(1)
	for i := 0; i < 1000; i++ {
		v := Between(r, 3, 7)
		if v < 3 || v >= 7 {
			t.Fatalf("expected value in [3, 7), got %d", v)
		}
	}
}

func TestChanceFrequency(t *testing.T) {
	r := New(3)
	const n = 20000
	hits := 0
	for i := 0; i < n; i++ {
		if Chance(r, 0.25) {
			hits++
		}
	}
	freq := float64(hits) / n
	if freq < 0.23 || freq > 0.27 {
		t.Fatalf("expected frequency near 0.25, got %.3f", freq)
	}
}

func TestByteSourceExhaustion(t *testing.T) {
	s := FromBytes([]byte{5, 200})
	if got := s.Intn(3); got != 2 {
		t.Fatalf("expected 5%%3=2, got %d", got)
	}
	if got := s.Float64(); got >= 1 {
		t.Fatalf("expected value below 1, got %f", got)
	}
	if s.Remaining() != 0 {
		t.Fatalf("expected data to be consumed")
	}
	if s.Intn(10) != 5 || s.Uint64() != ^uint64(0) {
		t.Fatalf("exhausted source must read all-ones bytes")
	}
	if Chance(s, 0.99) || Coin(s) {
		t.Fatalf("exhausted source must fail every chance")
	}
}
