// Package diag defines the diagnostic model used when validating a type
// catalog, its relation tables and the generator configuration.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form.
//   - Subject – what the finding is about, e.g. `type "fd"` or `group "fs"`.
//   - Message – human oriented text; keep it short and actionable.
//   - Notes – optional extra context lines.
//
// # Emitting diagnostics
//
// Validators write through a Reporter; BagReporter collects into a Bag which
// supports sorting, deduplication and conversion into a single error via
// Bag.Err. Validation runs once, before any generation begins, so every
// malformed entry is reported together.
//
// Package diag performs no IO; rendering lives in cmd/callgen.
package diag
