package codec_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaya/xaya-mcp-server/internal/codec"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		ns      string
		value   string
		wantErr bool
	}{
		{name: "player name", ns: "p", value: "domob", wantErr: false},
		{name: "game name", ns: "g", value: "taurion", wantErr: false},
		{name: "empty name is allowed", ns: "p", value: "", wantErr: false},
		{name: "unicode name", ns: "p", value: "föö", wantErr: false},
		{name: "empty namespace", ns: "", value: "domob", wantErr: true},
		{name: "uppercase namespace", ns: "P", value: "domob", wantErr: true},
		{name: "namespace with digit", ns: "p2", value: "domob", wantErr: true},
		{name: "control character", ns: "p", value: "do\x01mob", wantErr: true},
		{name: "newline", ns: "p", value: "do\nmob", wantErr: true},
		{name: "invalid utf8", ns: "p", value: string([]byte{0xff, 0xfe}), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := codec.ValidateName(tc.ns, tc.value)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName_LengthLimit(t *testing.T) {
	long := make([]byte, 255)
	for i := range long {
		long[i] = 'a'
	}
	assert.NoError(t, codec.ValidateName("p", string(long)))
	assert.Error(t, codec.ValidateName("p", string(long)+"a"))
}

func TestTokenIDForName(t *testing.T) {
	id1, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)
	id2, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	// The derivation is a pure hash: deterministic, and sensitive to both
	// components.
	assert.Equal(t, 0, id1.Cmp(id2))

	other, err := codec.TokenIDForName("g", "domob")
	require.NoError(t, err)
	assert.NotEqual(t, 0, id1.Cmp(other))

	// The separator byte keeps ("pd", "omob") distinct from ("p", "domob").
	shifted, err := codec.TokenIDForName("pd", "omob")
	require.NoError(t, err)
	assert.NotEqual(t, 0, id1.Cmp(shifted))

	_, err = codec.TokenIDForName("P", "domob")
	assert.Error(t, err)
}

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "decimal", input: "12345", want: "12345"},
		{name: "hex", input: "0xff", want: "255"},
		{name: "hex uppercase prefix", input: "0XFF", want: "255"},
		{name: "with whitespace", input: " 7 ", want: "7"},
		{name: "zero", input: "0", want: "0"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := codec.ParseTokenID(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id.String())
		})
	}
}

func TestParseTokenID_Uint256Range(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	id, err := codec.ParseTokenID(max.String())
	require.NoError(t, err)
	assert.Equal(t, 0, id.Cmp(max))

	over := new(big.Int).Add(max, big.NewInt(1))
	_, err = codec.ParseTokenID(over.String())
	assert.Error(t, err)
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals uint8
		want     string
	}{
		{name: "zero", raw: "0", decimals: 8, want: "0"},
		{name: "whole amount", raw: "1500000000", decimals: 8, want: "15"},
		{name: "fractional", raw: "123456789", decimals: 8, want: "1.23456789"},
		{name: "smallest unit", raw: "1", decimals: 8, want: "0.00000001"},
		{name: "trailing zeros trimmed", raw: "1230000000", decimals: 8, want: "12.3"},
		{name: "negative", raw: "-1500000000", decimals: 8, want: "-15"},
		{name: "no decimals", raw: "42", decimals: 0, want: "42"},
		{name: "18 decimals", raw: "1000000000000000001", decimals: 18, want: "1.000000000000000001"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tc.raw, 10)
			require.True(t, ok)
			assert.Equal(t, tc.want, codec.FormatUnits(raw, tc.decimals))
		})
	}
}

func TestParseUnits_RoundTrip(t *testing.T) {
	values := []string{"0", "1", "99999999", "1500000000", "123456789", "-42"}
	for _, v := range values {
		raw, ok := new(big.Int).SetString(v, 10)
		require.True(t, ok)

		human := codec.FormatUnits(raw, 8)
		back, err := codec.ParseUnits(human, 8)
		require.NoError(t, err)
		assert.Equal(t, 0, raw.Cmp(back), "value %s did not round-trip (human %s)", v, human)
	}
}

func TestParseUnits_TooManyFractionalDigits(t *testing.T) {
	_, err := codec.ParseUnits("1.123456789", 8)
	assert.Error(t, err)
}

func TestSubgraphID(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		want  string
	}{
		{name: "zero", value: 0, want: "0x00"},
		{name: "one", value: 1, want: "0x01"},
		{name: "sign extension when top bit set", value: 128, want: "0x8000"},
		{name: "255 gets sign byte", value: 255, want: "0xff00"},
		{name: "little endian order", value: 0x1234, want: "0x3412"},
		{name: "top byte below threshold", value: 0x7f, want: "0x7f"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := codec.SubgraphID(big.NewInt(tc.value))
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestSubgraphID_RejectsNegative(t *testing.T) {
	_, err := codec.SubgraphID(big.NewInt(-1))
	assert.Error(t, err)
}

func TestDecodeName(t *testing.T) {
	name, err := codec.DecodeName([]byte("domob"))
	require.NoError(t, err)
	assert.Equal(t, "domob", name)

	_, err = codec.DecodeName([]byte{0xff, 0xfe})
	assert.Error(t, err)
}

func TestNormalizeAddress(t *testing.T) {
	// EIP-55 test vector
	got, err := codec.NormalizeAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", got)

	_, err = codec.NormalizeAddress("not-an-address")
	assert.Error(t, err)

	_, err = codec.NormalizeAddress("0x1234")
	assert.Error(t, err)
}

func TestSplitMovePath(t *testing.T) {
	tests := []struct {
		name      string
		move      string
		wantPath  []string
		wantValue string
	}{
		{
			name:      "nested single keys peel into the path",
			move:      `{"g": {"taurion": {"m": "jump"}}}`,
			wantPath:  []string{"g", "taurion"},
			wantValue: `{"m": "jump"}`,
		},
		{
			name:      "descent stops at a non-object value",
			move:      `{"g": "jump"}`,
			wantPath:  []string{},
			wantValue: `{"g": "jump"}`,
		},
		{
			name:      "multi-key object is the value itself",
			move:      `{"a": {"x": 1}, "b": {"y": 2}}`,
			wantPath:  []string{},
			wantValue: `{"a": {"x": 1}, "b": {"y": 2}}`,
		},
		{
			name:      "scalar move",
			move:      `42`,
			wantPath:  []string{},
			wantValue: `42`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, value, err := codec.SplitMovePath(json.RawMessage(tc.move))
			require.NoError(t, err)
			assert.Equal(t, tc.wantPath, path)
			assert.JSONEq(t, tc.wantValue, string(value))
		})
	}
}

func TestCanonicalJSON(t *testing.T) {
	out, err := codec.CanonicalJSON(json.RawMessage(`{"b": 1, "a": 2}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, out)

	_, err = codec.CanonicalJSON(json.RawMessage(`{"broken":`))
	assert.Error(t, err)
}
