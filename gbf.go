// Package gbf implements GBF ("GREDBIN"), a self-describing binary
// container for MATLAB-like structured scientific data: nested structs of
// typed N-dimensional leaf arrays with optional per-leaf compression and
// integrity checks.
//
// A file is a fixed 12-byte prelude (8-byte magic, 4-byte header length),
// a JSON header describing every leaf, and a concatenated payload located
// by offsets recorded in the header. ReadFile/WriteFile round-trip a
// value.Value tree; ReadHeaderOnly and ReadVar support inspecting or
// fetching part of a file without decoding the rest.
package gbf

import (
	"github.com/scigolib/gbf/header"
	"github.com/scigolib/gbf/value"
)

// Header re-exports the header model's public type, so callers of this
// package never need to import package header directly for the common
// case of reading it back from ReadHeaderOnly.
type Header = header.Header

// FieldMeta re-exports one header entry.
type FieldMeta = header.FieldMeta

// Value re-exports the value tree's public type.
type Value = value.Value
