package gbf

import (
	"os"

	"github.com/scigolib/gbf/internal/reader"
	"github.com/scigolib/gbf/internal/writer"
)

// CompressionPolicy selects when a leaf's encoded bytes are zlib-compressed
// on write. See WriteOptions.Compression.
type CompressionPolicy = writer.CompressionPolicy

// Compression policies.
const (
	CompressionNever  = writer.PolicyNever
	CompressionAlways = writer.PolicyAlways
	CompressionAuto   = writer.PolicyAuto
)

// ReadOptions configures ReadHeaderOnly, ReadFile, and ReadVar.
type ReadOptions struct {
	// Validate enables header CRC, per-field CRC, and payload_start/
	// file_size consistency checks. Disabling it trades integrity
	// guarantees for speed when the caller already trusts the file.
	Validate bool

	// MaxHeaderLen bounds the accepted header JSON length, guarding
	// against a corrupt or hostile length prefix forcing a huge
	// allocation. Zero means the default of 64 MiB; the hard ceiling is
	// 256 MiB regardless of what is requested here.
	MaxHeaderLen uint32
}

func (o ReadOptions) toInternal() reader.Options {
	return reader.Options{Validate: o.Validate, MaxHeaderLen: o.MaxHeaderLen}
}

// WriteOptions configures WriteFile.
type WriteOptions struct {
	// Compression selects the per-leaf compression policy. The zero value
	// resolves to CompressionAuto.
	Compression CompressionPolicy

	// ZlibLevel is passed to the zlib writer whenever the compression
	// policy deflates a leaf. The zero value resolves to 6.
	ZlibLevel int

	// IncludeCRC32 selects whether a per-field CRC32 is computed and
	// recorded in the header. nil resolves to true; a non-nil false
	// disables it, and every field is written with crc32: 0. A reader
	// skips per-field CRC validation for any field recorded that way.
	IncludeCRC32 *bool

	// CreatedUTC and MatlabVersion populate the header's optional
	// provenance fields; both may be left empty.
	CreatedUTC    string
	MatlabVersion string

	// FileMode is the permission bits of the written file. The zero value
	// is 0644.
	FileMode os.FileMode
}

func (o WriteOptions) toInternal() writer.Options {
	return writer.Options{
		Compression:   o.Compression,
		ZlibLevel:     o.ZlibLevel,
		IncludeCRC32:  o.IncludeCRC32,
		CreatedUTC:    o.CreatedUTC,
		MatlabVersion: o.MatlabVersion,
		FileMode:      o.FileMode,
	}
}
