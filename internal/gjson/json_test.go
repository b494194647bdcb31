package gjson

import (
	"testing"

	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeCompact(t *testing.T) {
	v := Obj(
		Member{Key: "a", Value: Int(1)},
		Member{Key: "b", Value: Arr(Str("x"), Bool(true), Null())},
	)
	assert.Equal(t, `{"a":1,"b":["x",true,null]}`, string(Serialize(v)))
}

func TestParseRoundTrip(t *testing.T) {
	src := `{"name":"a.b.c","shape":[2,3],"complex":false,"offset":0,"crc32":4294967295}`
	v, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, string(Serialize(v)))

	name, ok := v.Get("name")
	require.True(t, ok)
	s, err := name.String()
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", s)
}

func TestParseRejectsLeadingZeroLiteral(t *testing.T) {
	v, err := Parse([]byte(`{"n":007}`))
	// Leading zero is not valid JSON number syntax; must fail.
	require.Error(t, err)
	_ = v
}

func TestParseLargeUint64Literal(t *testing.T) {
	v, err := Parse([]byte(`18446744073709551615`))
	require.NoError(t, err)
	n, err := v.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), n)
	assert.Equal(t, "18446744073709551615", string(Serialize(v)))
}

func TestParseUnicodeEscape(t *testing.T) {
	v, err := Parse([]byte(`"caff\u00e8"`))
	require.NoError(t, err)
	s, err := v.String()
	require.NoError(t, err)
	assert.Equal(t, "caffè", s)
}

func TestParseSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE encoded as a UTF-16 surrogate pair.
	v, err := Parse([]byte("\"\\ud83d\\ude00\""))
	require.NoError(t, err)
	s, err := v.String()
	require.NoError(t, err)
	assert.Equal(t, "😀", s)
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{"a":1} garbage`))
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindHeaderJSONParse))
}

func TestParseRejectsLoneSurrogate(t *testing.T) {
	_, err := Parse([]byte(`"\ud83d"`))
	require.Error(t, err)
}

func TestParseArrayAndObjectEmpty(t *testing.T) {
	v, err := Parse([]byte(`{"a":[],"b":{}}`))
	require.NoError(t, err)
	a, _ := v.Get("a")
	arr, err := a.Array()
	require.NoError(t, err)
	assert.Empty(t, arr)
}
