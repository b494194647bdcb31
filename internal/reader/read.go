package reader

import (
	"encoding/binary"
	"os"
	"strings"

	"github.com/scigolib/gbf/header"
	"github.com/scigolib/gbf/internal/codec"
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/integrity"
	"github.com/scigolib/gbf/value"
)

// Options carries the knobs ReadHeaderOnly/ReadFile/ReadVar expose to
// callers, mirrored from the root package's ReadOptions.
type Options struct {
	Validate     bool
	MaxHeaderLen uint32 // 0 means the default of 64 MiB
}

const (
	magicLen          = 8
	lengthPrefixLen   = 4
	defaultMaxHeader  = 64 << 20
	hardMaxHeaderCeil = 256 << 20
)

// ReadHeaderOnly opens path, validates the magic and header length, parses
// the header JSON, and returns the parsed Header, the on-disk header
// length, and the raw header JSON bytes.
func ReadHeaderOnly(path string, opts Options) (header.Header, uint32, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return header.Header{}, 0, nil, gbferr.Wrap(gbferr.KindIO, "open file", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return header.Header{}, 0, nil, gbferr.Wrap(gbferr.KindIO, "stat file", err)
	}

	prefix := make([]byte, magicLen+lengthPrefixLen)
	if _, err := f.ReadAt(prefix, 0); err != nil {
		return header.Header{}, 0, nil, gbferr.Wrap(gbferr.KindTruncated, "read magic and header length", err)
	}
	if !strings.HasPrefix(string(prefix[:magicLen]), "GREDBIN") {
		return header.Header{}, 0, nil, gbferr.New(gbferr.KindBadMagic, "file does not begin with GREDBIN")
	}

	headerLen := binary.LittleEndian.Uint32(prefix[magicLen:])
	maxLen := opts.MaxHeaderLen
	if maxLen == 0 {
		maxLen = defaultMaxHeader
	}
	if maxLen > hardMaxHeaderCeil {
		maxLen = hardMaxHeaderCeil
	}
	if headerLen > maxLen {
		return header.Header{}, 0, nil, gbferr.New(gbferr.KindInvalidData, "header length exceeds configured maximum")
	}

	headerBytes := make([]byte, headerLen)
	if headerLen > 0 {
		if _, err := f.ReadAt(headerBytes, int64(magicLen+lengthPrefixLen)); err != nil {
			return header.Header{}, 0, nil, gbferr.Wrap(gbferr.KindTruncated, "read header JSON", err)
		}
	}

	h, err := header.Parse(headerBytes, opts.Validate, uint64(stat.Size()))
	if err != nil {
		return header.Header{}, 0, nil, err
	}

	return h, headerLen, headerBytes, nil
}

// ReadFile reads the entire value tree from path: every leaf in the
// header, reassembled at its dotted path.
func ReadFile(path string, opts Options) (value.Value, error) {
	h, _, _, err := ReadHeaderOnly(path, opts)
	if err != nil {
		return value.Value{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return value.Value{}, gbferr.Wrap(gbferr.KindIO, "open file", err)
	}
	defer f.Close()

	raw, err := ReadFields(f, h.PayloadStart, h.Fields)
	if err != nil {
		return value.Value{}, gbferr.Wrap(gbferr.KindTruncated, "read payload", err)
	}

	root := value.NewStruct()
	for i, fm := range h.Fields {
		leaf, err := decodeField(fm, raw[i], opts.Validate)
		if err != nil {
			return value.Value{}, err
		}
		if fm.Name == "<root>" {
			return leaf, nil
		}
		if err := value.InsertPath(&root, fm.Name, leaf); err != nil {
			return value.Value{}, err
		}
	}
	return root, nil
}

// ReadVar reads a single named variable (leaf or subtree prefix) out of
// path without decoding unrelated leaves.
func ReadVar(path, variable string, opts Options) (value.Value, error) {
	h, _, _, err := ReadHeaderOnly(path, opts)
	if err != nil {
		return value.Value{}, err
	}

	var exactIdx = -1
	var prefixIdxs []int
	for i, fm := range h.Fields {
		if fm.Name == variable {
			exactIdx = i
		} else if strings.HasPrefix(fm.Name, variable+".") {
			prefixIdxs = append(prefixIdxs, i)
		}
	}

	if exactIdx == -1 && len(prefixIdxs) == 0 {
		return value.Value{}, gbferr.New(gbferr.KindNotFound, "no field matches variable "+variable)
	}

	f, err := os.Open(path)
	if err != nil {
		return value.Value{}, gbferr.Wrap(gbferr.KindIO, "open file", err)
	}
	defer f.Close()

	if exactIdx != -1 {
		raw, err := ReadFields(f, h.PayloadStart, []header.FieldMeta{h.Fields[exactIdx]})
		if err != nil {
			return value.Value{}, gbferr.Wrap(gbferr.KindTruncated, "read payload", err)
		}
		return decodeField(h.Fields[exactIdx], raw[0], opts.Validate)
	}

	subset := make([]header.FieldMeta, len(prefixIdxs))
	for i, idx := range prefixIdxs {
		subset[i] = h.Fields[idx]
	}
	raw, err := ReadFields(f, h.PayloadStart, subset)
	if err != nil {
		return value.Value{}, gbferr.Wrap(gbferr.KindTruncated, "read payload", err)
	}

	leaves := make([]value.LeafPath, len(subset))
	for i, fm := range subset {
		leaf, err := decodeField(fm, raw[i], opts.Validate)
		if err != nil {
			return value.Value{}, err
		}
		leaves[i] = value.LeafPath{Name: fm.Name, Leaf: leaf}
	}

	subtree, found := value.BuildSubtree(variable, leaves)
	if !found {
		return value.Value{}, gbferr.New(gbferr.KindNotFound, "no field matches variable "+variable)
	}
	return subtree, nil
}

func decodeField(fm header.FieldMeta, raw []byte, validate bool) (value.Value, error) {
	var uncompressed []byte
	switch fm.Compression {
	case "zlib":
		inflated, err := integrity.Inflate(raw, fm.USize)
		if err != nil {
			return value.Value{}, gbferr.Wrap(gbferr.KindZlib, "inflate field "+fm.Name, err)
		}
		uncompressed = inflated
	case "none", "":
		uncompressed = raw
	default:
		return value.Value{}, gbferr.New(gbferr.KindUnsupported, "unknown compression "+fm.Compression)
	}

	// A recorded crc32 of 0 means the writer either disabled per-field CRC32
	// (WriteOptions.IncludeCRC32 == false) or the leaf is genuinely empty;
	// either way there is nothing meaningful to check it against.
	if validate && fm.CRC32 != 0 {
		if integrity.Checksum(uncompressed) != fm.CRC32 {
			return value.Value{}, gbferr.New(gbferr.KindFieldCRCMismatch, "field CRC mismatch for "+fm.Name)
		}
	}

	return codec.Decode(fm.Kind, fm.Class, fm.Shape, fm.Complex, fm.Encoding, uncompressed)
}
