package rng

import "encoding/binary"

// ByteSource uses a byte slice as a source of randomness, so fuzzers can
// steer generation. Once the data is exhausted every byte reads as 0xff,
// which makes every Chance fail, so coin-driven loops terminate.
type ByteSource struct {
	data []byte
	pos  int
}

const exhausted = 0xff

// FromBytes wraps data without copying it.
func FromBytes(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

func (s *ByteSource) next() byte {
	if s.pos >= len(s.data) {
		return exhausted
	}
	v := s.data[s.pos]
	s.pos++
	return v
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if n <= 256 {
		return int(s.next()) % n
	}
	return int(s.Uint64N(uint64(n)))
}

func (s *ByteSource) Uint64() uint64 {
	var buf [8]byte
	for i := range buf {
		buf[i] = s.next()
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func (s *ByteSource) Uint64N(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return s.Uint64() % n
}

func (s *ByteSource) Float64() float64 {
	return float64(s.next()) / 256.0
}

// Remaining reports how many unread bytes are left.
func (s *ByteSource) Remaining() int {
	return len(s.data) - s.pos
}
