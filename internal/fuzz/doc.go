// Package fuzztests houses Go fuzz harnesses that drive the generator from
// fuzzer-controlled bytes. They guard against panics, hangs and malformed
// programs on arbitrary randomness and on arbitrary target files.
//
// Not covered: corpus generation, file output, CLI execution.
package fuzztests
