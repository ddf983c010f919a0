// Package codec converts between blockchain-native encodings and domain
// values. All functions are pure: no I/O, no retries.
package codec

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gowebpki/jcs"
)

// maxNameBytes is the length limit the Xaya name policy enforces on-chain.
const maxNameBytes = 255

var maxUint256 = new(big.Int).Lsh(big.NewInt(1), 256)

// ValidateName checks well-formedness of a namespace/name pair: the
// namespace is lowercase ASCII letters, the name is valid UTF-8 of at most
// 255 bytes without control characters. This mirrors the on-chain policy;
// names rejected here could never have been registered.
func ValidateName(ns, name string) error {
	if ns == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	for _, c := range ns {
		if c < 'a' || c > 'z' {
			return fmt.Errorf("namespace %q contains invalid character %q", ns, c)
		}
	}

	if len(name) > maxNameBytes {
		return fmt.Errorf("name exceeds %d bytes", maxNameBytes)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("name is not valid UTF-8")
	}
	for _, r := range name {
		if r < 0x20 {
			return fmt.Errorf("name contains control character U+%04X", r)
		}
	}

	return nil
}

// TokenIDForName derives the canonical token id of a name:
// uint256(keccak256(ns || 0x00 || name)). This must match
// XayaAccounts.tokenIdForName exactly; a mismatch is a correctness bug.
func TokenIDForName(ns, name string) (*big.Int, error) {
	if err := ValidateName(ns, name); err != nil {
		return nil, err
	}

	h := crypto.Keccak256([]byte(ns), []byte{0x00}, []byte(name))
	return new(big.Int).SetBytes(h), nil
}

// ParseTokenID parses a token id given as a decimal or 0x-prefixed hex
// string and checks the uint256 range.
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("token id must not be empty")
	}

	var (
		id *big.Int
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		id, ok = new(big.Int).SetString(s[2:], 16)
	} else {
		id, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid token id: %s", s)
	}
	if id.Sign() < 0 || id.Cmp(maxUint256) >= 0 {
		return nil, fmt.Errorf("token id out of uint256 range: %s", s)
	}

	return id, nil
}

// FormatUnits renders a raw token amount as an exact decimal string using
// integer arithmetic only. Trailing fractional zeros are trimmed, so the
// output round-trips through ParseUnits without drift.
func FormatUnits(raw *big.Int, decimals uint8) string {
	if decimals == 0 {
		return raw.String()
	}

	abs := new(big.Int).Abs(raw)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, scale, new(big.Int))

	out := whole.String()
	if raw.Sign() < 0 {
		out = "-" + out
	}

	fracStr := frac.String()
	fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	fracDigits := strings.TrimRight(fracStr, "0")
	if fracDigits != "" {
		out += "." + fracDigits
	}
	return out
}

// ParseUnits is the exact inverse of FormatUnits.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount: %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d fractional digits", s, decimals)
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	raw, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", s)
	}
	if neg {
		raw.Neg(raw)
	}
	return raw, nil
}

// SubgraphID renders a token id the way the subgraph's AssemblyScript
// mappings derive entity ids from a BigInt: little-endian bytes, minimal
// length, with a sign-extension byte when the top bit of the top byte is
// set. Zero encodes as "0x00".
func SubgraphID(tokenID *big.Int) (string, error) {
	if tokenID.Sign() < 0 {
		return "", fmt.Errorf("token id must not be negative")
	}
	if tokenID.Sign() == 0 {
		return "0x00", nil
	}

	be := tokenID.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	if le[len(le)-1]&0x80 != 0 {
		le = append(le, 0x00)
	}

	return "0x" + hex.EncodeToString(le), nil
}

// DecodeName decodes a packed on-chain name to text, rejecting malformed
// byte sequences instead of substituting replacement characters.
func DecodeName(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("name bytes are not valid UTF-8")
	}
	return string(b), nil
}

// NormalizeAddress validates an Ethereum address and returns its
// EIP-55 checksummed form.
func NormalizeAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address: %s", s)
	}
	return common.HexToAddress(s).Hex(), nil
}

// SplitMovePath peels nested single-key JSON objects off a move value into
// a delegation path. Descent stops when the inner value is not an object,
// since hierarchical moves require the remaining value to be one.
func SplitMovePath(move json.RawMessage) ([]string, json.RawMessage, error) {
	path := []string{}
	current := move

	for {
		var node map[string]json.RawMessage
		if err := json.Unmarshal(current, &node); err != nil {
			// Not an object; the move itself is the value.
			break
		}
		if len(node) != 1 {
			break
		}

		var key string
		var next json.RawMessage
		for k, v := range node {
			key, next = k, v
		}
		if len(bytes.TrimLeft(next, " \t\r\n")) == 0 || bytes.TrimLeft(next, " \t\r\n")[0] != '{' {
			break
		}

		path = append(path, key)
		current = next
	}

	return path, current, nil
}

// CanonicalJSON serializes a JSON value in RFC 8785 canonical form, the
// exact byte representation a move submission would carry.
func CanonicalJSON(raw json.RawMessage) (string, error) {
	out, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize move: %w", err)
	}
	return string(out), nil
}
