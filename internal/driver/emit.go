package driver

import (
	"sync"

	"callgen/internal/prog"
)

type serialEmitter struct {
	mu sync.Mutex
	fn func(int, *prog.Prog) error
}

func newSerialEmitter(fn func(int, *prog.Prog) error) *serialEmitter {
	return &serialEmitter{fn: fn}
}

func (e *serialEmitter) call(i int, p *prog.Prog) error {
	if e.fn == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fn(i, p)
}
