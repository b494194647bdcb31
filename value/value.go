// Package value implements the GBF in-memory value tree: a closed sum type
// over nested structs and typed N-dimensional leaf arrays, plus the
// constructors that validate each variant's structural invariants.
package value

import (
	"strings"

	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
)

// Kind discriminates the Value sum type.
type Kind int

// Value kinds, one per leaf taxonomy entry plus Struct.
const (
	KindStruct Kind = iota
	KindNumeric
	KindLogical
	KindChar
	KindString
	KindDateTime
	KindDuration
	KindCalendarDuration
	KindCategorical
	KindOpaque
)

// String names the kind the way it appears in header "kind" fields.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindNumeric:
		return "numeric"
	case KindLogical:
		return "logical"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindCalendarDuration:
		return "calendarDuration"
	case KindCategorical:
		return "categorical"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// NumericClass enumerates the numeric element types.
type NumericClass string

// Numeric classes.
const (
	ClassDouble NumericClass = "double"
	ClassSingle NumericClass = "single"
	ClassInt8   NumericClass = "int8"
	ClassUint8  NumericClass = "uint8"
	ClassInt16  NumericClass = "int16"
	ClassUint16 NumericClass = "uint16"
	ClassInt32  NumericClass = "int32"
	ClassUint32 NumericClass = "uint32"
	ClassInt64  NumericClass = "int64"
	ClassUint64 NumericClass = "uint64"
)

// StringElement is one element of a String value: either present UTF-8
// text or "missing".
type StringElement struct {
	Missing bool
	Text    string
}

// Value is a GBF value tree node. Only the fields relevant to Kind are
// meaningful; all buffers are exclusively owned (no sharing, no cycles).
type Value struct {
	Kind Kind

	// Struct
	Fields []Field // ordered; insertion order not semantic

	// Numeric / Logical / Char / String / DateTime / Duration /
	// CalendarDuration / Categorical / Opaque share Shape.
	Shape []uint64

	// Numeric
	NumClass NumericClass
	Complex  bool
	RealLE   []byte
	ImagLE   []byte

	// Logical
	LogicalData []byte

	// Char
	CodeUnits []uint16

	// String
	StringData []StringElement

	// DateTime
	Timezone string
	Locale   string
	Format   string
	NatMask  []byte
	UnixMs   []int64

	// Duration
	NanMask []byte
	Ms      []int64

	// CalendarDuration
	CalMask   []byte
	Months    []int32
	Days      []int32
	CalTimeMs []int64

	// Categorical
	Categories []string
	Codes      []uint32

	// Opaque
	OpaqueKind     string
	OpaqueClass    string
	OpaqueEncoding string
	OpaqueData     []byte
}

// Field is one named child of a Struct, in insertion order.
type Field struct {
	Name  string
	Value Value
}

func numelOrErr(shape []uint64) (uint64, error) {
	return primitives.Numel(shape)
}

// NewStruct returns an empty Struct value. Use SetField/InsertPath to
// populate it.
func NewStruct() Value {
	return Value{Kind: KindStruct}
}

// SetField inserts or replaces a direct child field of a Struct value,
// requiring name to be a non-empty UTF-8 string containing no '.'.
func (v *Value) SetField(name string, child Value) error {
	if v.Kind != KindStruct {
		return gbferr.New(gbferr.KindInvalidData, "SetField on non-struct value")
	}
	if name == "" {
		return gbferr.New(gbferr.KindInvalidData, "struct field name must be non-empty")
	}
	if strings.Contains(name, ".") {
		return gbferr.New(gbferr.KindInvalidData, "struct field name must not contain '.'")
	}
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			v.Fields[i].Value = child
			return nil
		}
	}
	v.Fields = append(v.Fields, Field{Name: name, Value: child})
	return nil
}

// NewNumeric constructs a Numeric value, validating that realLE's length
// matches numel(shape)*bpe(class), and imagLE likewise when complex.
func NewNumeric(class NumericClass, shape []uint64, isComplex bool, realLE, imagLE []byte) (Value, error) {
	bpe, err := primitives.BytesPerElement(string(class))
	if err != nil {
		return Value{}, err
	}
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	want, err := primitives.CheckedMul(numel, bpe)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(realLE)) != want {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "real_le length does not match numel(shape)*bpe(class)")
	}
	if isComplex {
		if uint64(len(imagLE)) != want {
			return Value{}, gbferr.New(gbferr.KindInvalidData, "imag_le length does not match numel(shape)*bpe(class)")
		}
	} else if len(imagLE) != 0 {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "imag_le must be empty when complex is false")
	}
	return Value{
		Kind: KindNumeric, NumClass: class, Shape: shape, Complex: isComplex,
		RealLE: realLE, ImagLE: imagLE,
	}, nil
}

// NewLogical constructs a Logical value; data must hold one byte per
// element, each 0 or 1.
func NewLogical(shape []uint64, data []byte) (Value, error) {
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(data)) != numel {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "logical data length must equal numel(shape)")
	}
	for _, b := range data {
		if b != 0 && b != 1 {
			return Value{}, gbferr.New(gbferr.KindInvalidData, "logical element must be 0 or 1")
		}
	}
	return Value{Kind: KindLogical, Shape: shape, LogicalData: data}, nil
}

// NewChar constructs a Char value from UTF-16 code units.
func NewChar(shape []uint64, codeUnits []uint16) (Value, error) {
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(codeUnits)) != numel {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "char code_units length must equal numel(shape)")
	}
	return Value{Kind: KindChar, Shape: shape, CodeUnits: codeUnits}, nil
}

// NewString constructs a String value; elements must number numel(shape).
func NewString(shape []uint64, elements []StringElement) (Value, error) {
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(elements)) != numel {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "string elements length must equal numel(shape)")
	}
	return Value{Kind: KindString, Shape: shape, StringData: elements}, nil
}

// NewDateTime constructs a DateTime value. An empty timezone denotes a
// naive datetime. natMask and unixMs must each have numel(shape) entries.
func NewDateTime(shape []uint64, timezone, locale, format string, natMask []byte, unixMs []int64) (Value, error) {
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(natMask)) != numel || uint64(len(unixMs)) != numel {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "datetime mask/data length must equal numel(shape)")
	}
	return Value{
		Kind: KindDateTime, Shape: shape, Timezone: timezone, Locale: locale,
		Format: format, NatMask: natMask, UnixMs: unixMs,
	}, nil
}

// NewDuration constructs a Duration value; nanMask and ms must each have
// numel(shape) entries.
func NewDuration(shape []uint64, nanMask []byte, ms []int64) (Value, error) {
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(nanMask)) != numel || uint64(len(ms)) != numel {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "duration mask/data length must equal numel(shape)")
	}
	return Value{Kind: KindDuration, Shape: shape, NanMask: nanMask, Ms: ms}, nil
}

// NewCalendarDuration constructs a CalendarDuration value; mask, months,
// days, and timeMs must each have numel(shape) entries.
func NewCalendarDuration(shape []uint64, mask []byte, months, days []int32, timeMs []int64) (Value, error) {
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(mask)) != numel || uint64(len(months)) != numel ||
		uint64(len(days)) != numel || uint64(len(timeMs)) != numel {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "calendarDuration field length must equal numel(shape)")
	}
	return Value{
		Kind: KindCalendarDuration, Shape: shape, CalMask: mask,
		Months: months, Days: days, CalTimeMs: timeMs,
	}, nil
}

// NewCategorical constructs a Categorical value; codes must have
// numel(shape) entries, each 0 (undefined) or a 1-based index into
// categories.
func NewCategorical(shape []uint64, categories []string, codes []uint32) (Value, error) {
	numel, err := numelOrErr(shape)
	if err != nil {
		return Value{}, err
	}
	if uint64(len(codes)) != numel {
		return Value{}, gbferr.New(gbferr.KindInvalidData, "categorical codes length must equal numel(shape)")
	}
	for _, c := range codes {
		if c != 0 && uint64(c) > uint64(len(categories)) {
			return Value{}, gbferr.New(gbferr.KindInvalidData, "categorical code out of range")
		}
	}
	return Value{Kind: KindCategorical, Shape: shape, Categories: categories, Codes: codes}, nil
}

// NewOpaque constructs an Opaque value, used to pass through leaf kinds
// this implementation does not interpret.
func NewOpaque(kind, class string, shape []uint64, isComplex bool, encoding string, data []byte) Value {
	return Value{
		Kind: KindOpaque, OpaqueKind: kind, OpaqueClass: class, Shape: shape,
		Complex: isComplex, OpaqueEncoding: encoding, OpaqueData: data,
	}
}
