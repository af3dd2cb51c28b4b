package main

import (
	"fmt"
	"io"

	"callgen/internal/observ"
)

// printTimings writes the phase table, or nothing when timings are off.
func printTimings(out io.Writer, timer *observ.Timer, enabled bool) {
	if !enabled || out == nil || timer == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}
