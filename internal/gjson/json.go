// Package gjson implements the restricted JSON dialect used by the GBF
// header: objects with string keys, arrays, strings (with \uXXXX escapes
// and surrogate pairs), booleans, null, and numbers whose original literal
// token is preserved verbatim. Preserving the literal matters because the
// header's own CRC32 is computed over the serialized JSON bytes: if a
// round-trip silently reformatted "8" as "8.0" or reordered digits, the
// CRC would no longer describe the bytes a caller actually wrote to disk.
//
// encoding/json cannot be used here for exactly that reason: it decodes
// numbers into float64/json.Number inconsistently across call sites and
// gives no control over compact, whitespace-free, deterministic output.
package gjson

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/scigolib/gbf/internal/gbferr"
)

// Kind discriminates the JSON value variants this dialect supports.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Member is one key/value pair of an object, in insertion order.
type Member struct {
	Key   string
	Value Value
}

// Value is a restricted-JSON value. Only the fields relevant to Kind are
// meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Num     string // raw literal token, preserved verbatim
	Str     string
	Arr     []Value
	Obj     []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Str returns a JSON string.
func Str(s string) Value { return Value{Kind: KindString, Str: s} }

// Int returns a JSON number from an int64, formatted as a base-10 literal.
func Int(n int64) Value { return Value{Kind: KindNumber, Num: strconv.FormatInt(n, 10)} }

// Uint returns a JSON number from a uint64, formatted as a base-10 literal.
func Uint(n uint64) Value { return Value{Kind: KindNumber, Num: strconv.FormatUint(n, 10)} }

// RawNumber returns a JSON number using the exact literal token given.
// Used when re-emitting a number parsed from an existing header unchanged.
func RawNumber(literal string) Value { return Value{Kind: KindNumber, Num: literal} }

// Arr returns a JSON array.
func Arr(elems ...Value) Value { return Value{Kind: KindArray, Arr: elems} }

// Obj returns a JSON object built from members, preserving member order.
func Obj(members ...Member) Value { return Value{Kind: KindObject, Obj: members} }

// Get returns the value of the named member of an object, or false if
// absent or v is not an object.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.Obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Int64 returns the value as an int64, failing if it is not a number or
// does not parse as one.
func (v Value) Int64() (int64, error) {
	if v.Kind != KindNumber {
		return 0, gbferr.New(gbferr.KindHeaderJSONParse, "expected number")
	}
	n, err := strconv.ParseInt(v.Num, 10, 64)
	if err != nil {
		return 0, gbferr.Wrap(gbferr.KindHeaderJSONParse, "invalid integer literal "+v.Num, err)
	}
	return n, nil
}

// Uint64 returns the value as a uint64, failing if it is not a number or
// does not parse as one.
func (v Value) Uint64() (uint64, error) {
	if v.Kind != KindNumber {
		return 0, gbferr.New(gbferr.KindHeaderJSONParse, "expected number")
	}
	n, err := strconv.ParseUint(v.Num, 10, 64)
	if err != nil {
		return 0, gbferr.Wrap(gbferr.KindHeaderJSONParse, "invalid integer literal "+v.Num, err)
	}
	return n, nil
}

// String returns the value as a string, failing if it is not a string.
func (v Value) String() (string, error) {
	if v.Kind != KindString {
		return "", gbferr.New(gbferr.KindHeaderJSONParse, "expected string")
	}
	return v.Str, nil
}

// Boolean returns the value as a bool, failing if it is not a boolean.
func (v Value) Boolean() (bool, error) {
	if v.Kind != KindBool {
		return false, gbferr.New(gbferr.KindHeaderJSONParse, "expected boolean")
	}
	return v.Bool, nil
}

// Array returns the elements of an array, failing if v is not an array.
func (v Value) Array() ([]Value, error) {
	if v.Kind != KindArray {
		return nil, gbferr.New(gbferr.KindHeaderJSONParse, "expected array")
	}
	return v.Arr, nil
}

// Serialize renders v as compact JSON (no whitespace), using C-locale
// number formatting (the literal token is emitted unchanged).
func Serialize(v Value) []byte {
	var sb strings.Builder
	writeValue(&sb, v)
	return []byte(sb.String())
}

func writeValue(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(v.Num)
	case KindString:
		writeString(sb, v.Str)
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.Arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeValue(sb, e)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, m := range v.Obj {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, m.Key)
			sb.WriteByte(':')
			writeValue(sb, m.Value)
		}
		sb.WriteByte('}')
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

// Parse parses a single JSON value from data. Trailing non-whitespace data
// after the value is rejected.
func Parse(data []byte) (Value, error) {
	p := &parser{data: data}
	p.skipWhitespace()
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return Value{}, gbferr.New(gbferr.KindHeaderJSONParse, "trailing data after JSON value")
	}
	return v, nil
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errf(format string, args ...interface{}) error {
	return gbferr.New(gbferr.KindHeaderJSONParse, fmt.Sprintf(format, args...))
}

func (p *parser) parseValue() (Value, error) {
	if p.pos >= len(p.data) {
		return Value{}, p.errf("unexpected end of input")
	}
	switch c := p.data[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseStringLiteral()
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil
	case c == 't':
		return p.parseLiteral("true", Bool(true))
	case c == 'f':
		return p.parseLiteral("false", Bool(false))
	case c == 'n':
		return p.parseLiteral("null", Null())
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return Value{}, p.errf("unexpected character %q at offset %d", c, p.pos)
	}
}

func (p *parser) parseLiteral(lit string, v Value) (Value, error) {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return Value{}, p.errf("invalid literal at offset %d", p.pos)
	}
	p.pos += len(lit)
	return v, nil
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}
	if p.pos >= len(p.data) || p.data[p.pos] < '0' || p.data[p.pos] > '9' {
		return Value{}, p.errf("invalid number at offset %d", start)
	}
	if p.data[p.pos] == '0' {
		p.pos++
	} else {
		for p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
			p.pos++
		}
	}
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		p.pos++
		digitsStart := p.pos
		for p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
			p.pos++
		}
		if p.pos == digitsStart {
			return Value{}, p.errf("invalid number fraction at offset %d", start)
		}
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		digitsStart := p.pos
		for p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
			p.pos++
		}
		if p.pos == digitsStart {
			return Value{}, p.errf("invalid number exponent at offset %d", start)
		}
	}
	return RawNumber(string(p.data[start:p.pos])), nil
}

func (p *parser) parseStringLiteral() (string, error) {
	if p.data[p.pos] != '"' {
		return "", p.errf("expected string at offset %d", p.pos)
	}
	p.pos++

	var sb strings.Builder
	for {
		if p.pos >= len(p.data) {
			return "", p.errf("unterminated string")
		}
		c := p.data[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.data) {
				return "", p.errf("unterminated escape sequence")
			}
			esc := p.data[p.pos]
			switch esc {
			case '"':
				sb.WriteByte('"')
				p.pos++
			case '\\':
				sb.WriteByte('\\')
				p.pos++
			case '/':
				sb.WriteByte('/')
				p.pos++
			case 'b':
				sb.WriteByte('\b')
				p.pos++
			case 'f':
				sb.WriteByte('\f')
				p.pos++
			case 'n':
				sb.WriteByte('\n')
				p.pos++
			case 'r':
				sb.WriteByte('\r')
				p.pos++
			case 't':
				sb.WriteByte('\t')
				p.pos++
			case 'u':
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				sb.WriteRune(r)
			default:
				return "", p.errf("invalid escape character %q", esc)
			}
			continue
		}
		if c < 0x20 {
			return "", p.errf("unescaped control character in string")
		}
		// Copy one UTF-8 rune verbatim.
		_, size := utf8.DecodeRune(p.data[p.pos:])
		sb.Write(p.data[p.pos : p.pos+size])
		p.pos += size
	}
}

// parseUnicodeEscape consumes a \u escape whose backslash is already
// consumed (p.pos is at the 'u'), handling UTF-16 surrogate pairs.
func (p *parser) parseUnicodeEscape() (rune, error) {
	hi, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if utf16.IsSurrogate(rune(hi)) {
		if p.pos+1 < len(p.data) && p.data[p.pos] == '\\' && p.data[p.pos+1] == 'u' {
			p.pos++ // consume '\\'; readHex4 consumes the 'u'
			lo, err := p.readHex4()
			if err != nil {
				return 0, err
			}
			r := utf16.DecodeRune(rune(hi), rune(lo))
			if r == utf8.RuneError {
				return 0, p.errf("invalid surrogate pair")
			}
			return r, nil
		}
		return 0, p.errf("lone surrogate in \\u escape")
	}
	return rune(hi), nil
}

// readHex4 consumes the 'u' at p.pos and reads the 4 hex digits after it.
func (p *parser) readHex4() (uint16, error) {
	p.pos++ // consume 'u'
	if p.pos+4 > len(p.data) {
		return 0, p.errf("truncated \\u escape")
	}
	v, err := strconv.ParseUint(string(p.data[p.pos:p.pos+4]), 16, 16)
	if err != nil {
		return 0, p.errf("invalid \\u escape digits")
	}
	p.pos += 4
	return uint16(v), nil
}

func (p *parser) parseArray() (Value, error) {
	p.pos++ // consume '['
	p.skipWhitespace()
	var elems []Value
	if p.pos < len(p.data) && p.data[p.pos] == ']' {
		p.pos++
		return Arr(elems...), nil
	}
	for {
		p.skipWhitespace()
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Value{}, p.errf("unterminated array")
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Arr(elems...), nil
		default:
			return Value{}, p.errf("expected ',' or ']' at offset %d", p.pos)
		}
	}
}

func (p *parser) parseObject() (Value, error) {
	p.pos++ // consume '{'
	p.skipWhitespace()
	var members []Member
	if p.pos < len(p.data) && p.data[p.pos] == '}' {
		p.pos++
		return Obj(members...), nil
	}
	for {
		p.skipWhitespace()
		key, err := p.parseStringLiteral()
		if err != nil {
			return Value{}, err
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) || p.data[p.pos] != ':' {
			return Value{}, p.errf("expected ':' at offset %d", p.pos)
		}
		p.pos++
		p.skipWhitespace()
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: v})
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Value{}, p.errf("unterminated object")
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Obj(members...), nil
		default:
			return Value{}, p.errf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}
