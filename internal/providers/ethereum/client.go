// Package ethereum wraps read-only calls against the Xaya contracts into
// typed domain operations. Each operation issues exactly one eth_call and
// decodes eagerly at this boundary; retry policy lives in the resolver.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/xaya/xaya-mcp-server/internal/adapter"
	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/logger"
)

const accountsABIJSON = `[
	{"type":"function","stateMutability":"pure","name":"tokenIdForName","inputs":[{"name":"ns","type":"string"},{"name":"name","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","stateMutability":"view","name":"tokenIdToName","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"ns","type":"string"},{"name":"name","type":"string"}]},
	{"type":"function","stateMutability":"view","name":"ownerOf","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","stateMutability":"view","name":"getApproved","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","stateMutability":"view","name":"isApprovedForAll","inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","stateMutability":"view","name":"wchiToken","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

const wchiABIJSON = `[
	{"type":"function","stateMutability":"view","name":"balanceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","stateMutability":"view","name":"allowance","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","stateMutability":"view","name":"decimals","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

const delegationABIJSON = `[
	{"type":"function","stateMutability":"view","name":"accounts","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","stateMutability":"view","name":"getDefinedKeys","inputs":[{"name":"tokenId","type":"uint256"},{"name":"owner","type":"address"},{"name":"path","type":"string[]"}],"outputs":[{"name":"children","type":"string[]"},{"name":"fullAccess","type":"address[]"},{"name":"fallbackAccess","type":"address[]"}]},
	{"type":"function","stateMutability":"view","name":"getExpiration","inputs":[{"name":"tokenId","type":"uint256"},{"name":"owner","type":"address"},{"name":"path","type":"string[]"},{"name":"operator","type":"address"},{"name":"fallbackOnly","type":"bool"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","stateMutability":"view","name":"hasAccess","inputs":[{"name":"ns","type":"string"},{"name":"name","type":"string"},{"name":"path","type":"string[]"},{"name":"operator","type":"address"},{"name":"atTime","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	accountsABI   = mustParseABI(accountsABIJSON)
	wchiABI       = mustParseABI(wchiABIJSON)
	delegationABI = mustParseABI(delegationABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		// The ABI definitions are part of the binary; failing to parse them
		// is a programming error, fatal at startup.
		panic(fmt.Sprintf("invalid embedded ABI: %v", err))
	}
	return parsed
}

// XayaClient exposes the read-only Xaya contract surface
//
//go:generate mockgen -source=client.go -destination=../../mocks/xaya_client.go -package=mocks -mock_names=XayaClient=MockXayaClient
type XayaClient interface {
	// TokenIDForName asks the accounts contract for a name's token id
	TokenIDForName(ctx context.Context, ns, name string) (*big.Int, error)

	// TokenIDToName reverses a token id to its namespace/name pair
	TokenIDToName(ctx context.Context, tokenID *big.Int) (ns string, name string, err error)

	// OwnerOf returns the current owner of a name token
	OwnerOf(ctx context.Context, tokenID *big.Int) (string, error)

	// GetApproved returns the per-token approved address, zero when unset
	GetApproved(ctx context.Context, tokenID *big.Int) (string, error)

	// IsApprovedForAll reports whether operator may act for all of owner's tokens
	IsApprovedForAll(ctx context.Context, owner, operator string) (bool, error)

	// BalanceOf returns the raw WCHI balance of an address
	BalanceOf(ctx context.Context, address string) (*big.Int, error)

	// Allowance returns the raw WCHI allowance from owner to spender
	Allowance(ctx context.Context, owner, spender string) (*big.Int, error)

	// DefinedKeys lists the delegation tree entries under one path node
	DefinedKeys(ctx context.Context, tokenID *big.Int, owner string, path []string) (children []string, fullAccess []string, fallbackAccess []string, err error)

	// Expiration returns the expiration timestamp of one delegation grant
	Expiration(ctx context.Context, tokenID *big.Int, owner string, path []string, operator string, fallbackOnly bool) (*big.Int, error)

	// HasAccess checks whether operator may send a move under path at the given time
	HasAccess(ctx context.Context, ns, name string, path []string, operator string, at *big.Int) (bool, error)

	// ChainID returns the connected chain id
	ChainID(ctx context.Context) (*big.Int, error)

	// BlockNumber returns the current chain head height
	BlockNumber(ctx context.Context) (uint64, error)

	// Decimals returns the WCHI decimals discovered at startup
	Decimals() uint8

	// Contracts returns the discovered contract wiring
	Contracts() (accounts, wchi, delegation string)

	// Close closes the underlying connection
	Close()
}

type xayaClient struct {
	client      adapter.EthClient
	callTimeout time.Duration

	accounts   common.Address
	wchi       common.Address
	delegation common.Address
	decimals   uint8
}

// Dial connects to the node and discovers the contract wiring from the
// configured delegation contract: its accounts() is the registry, whose
// wchiToken() is the WCHI token. WCHI decimals are immutable and read once.
func Dial(ctx context.Context, client adapter.EthClient, delegationContract string, callTimeout time.Duration) (XayaClient, error) {
	c := &xayaClient{
		client:      client,
		callTimeout: callTimeout,
		delegation:  common.HexToAddress(delegationContract),
	}

	var accounts common.Address
	if err := c.call(ctx, c.delegation, delegationABI, "accounts", []any{&accounts}); err != nil {
		return nil, fmt.Errorf("failed to discover accounts contract: %w", err)
	}
	c.accounts = accounts

	var wchi common.Address
	if err := c.call(ctx, c.accounts, accountsABI, "wchiToken", []any{&wchi}); err != nil {
		return nil, fmt.Errorf("failed to discover WCHI contract: %w", err)
	}
	c.wchi = wchi

	var decimals uint8
	if err := c.call(ctx, c.wchi, wchiABI, "decimals", []any{&decimals}); err != nil {
		return nil, fmt.Errorf("failed to read WCHI decimals: %w", err)
	}
	c.decimals = decimals

	logger.Info("Connected to Xaya contracts",
		zap.String("accounts", c.accounts.Hex()),
		zap.String("wchi", c.wchi.Hex()),
		zap.String("delegation", c.delegation.Hex()),
		zap.Uint8("wchi_decimals", c.decimals))

	return c, nil
}

// call packs one read-only contract call, executes it and unpacks the
// outputs into the given pointers, classifying any error into the domain
// failure taxonomy.
func (c *xayaClient) call(ctx context.Context, to common.Address, contract abi.ABI, method string, out []any, args ...any) error {
	callCtx := ctx
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	data, err := contract.Pack(method, args...)
	if err != nil {
		return domain.NewFailure(domain.FailureDecodeError, "failed to pack %s call: %v", method, err)
	}

	result, err := c.client.CallContract(callCtx, goethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return classifyCallError(method, err)
	}

	values, err := contract.Unpack(method, result)
	if err != nil {
		return domain.NewFailure(domain.FailureDecodeError, "response of %s did not match ABI: %v", method, err)
	}
	if len(values) != len(out) {
		return domain.NewFailure(domain.FailureDecodeError, "response of %s has %d values, want %d", method, len(values), len(out))
	}

	for i, v := range values {
		if err := assign(out[i], v); err != nil {
			return domain.NewFailure(domain.FailureDecodeError, "output %d of %s: %v", i, method, err)
		}
	}

	return nil
}

func assign(dst, src any) error {
	switch d := dst.(type) {
	case **big.Int:
		v, ok := src.(*big.Int)
		if !ok {
			return fmt.Errorf("expected uint256, got %T", src)
		}
		*d = v
	case *common.Address:
		v, ok := src.(common.Address)
		if !ok {
			return fmt.Errorf("expected address, got %T", src)
		}
		*d = v
	case *string:
		v, ok := src.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", src)
		}
		*d = v
	case *bool:
		v, ok := src.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", src)
		}
		*d = v
	case *uint8:
		v, ok := src.(uint8)
		if !ok {
			return fmt.Errorf("expected uint8, got %T", src)
		}
		*d = v
	case *[]string:
		v, ok := src.([]string)
		if !ok {
			return fmt.Errorf("expected string[], got %T", src)
		}
		*d = v
	case *[]common.Address:
		v, ok := src.([]common.Address)
		if !ok {
			return fmt.Errorf("expected address[], got %T", src)
		}
		*d = v
	default:
		return fmt.Errorf("unsupported output binding %T", dst)
	}
	return nil
}

// classifyCallError maps node errors into the failure taxonomy. Reverts on
// view calls mean the queried entity does not exist (e.g. ownerOf on an
// unregistered token); everything else is the node being unreachable.
func classifyCallError(method string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "execution reverted") || strings.Contains(msg, "revert") {
		return domain.NewFailure(domain.FailureNotFound, "%s reverted: %v", method, err)
	}
	return domain.NewFailure(domain.FailureNodeUnavailable, "%s call failed: %v", method, err)
}

func (c *xayaClient) TokenIDForName(ctx context.Context, ns, name string) (*big.Int, error) {
	var id *big.Int
	if err := c.call(ctx, c.accounts, accountsABI, "tokenIdForName", []any{&id}, ns, name); err != nil {
		return nil, err
	}
	return id, nil
}

func (c *xayaClient) TokenIDToName(ctx context.Context, tokenID *big.Int) (string, string, error) {
	var ns, name string
	if err := c.call(ctx, c.accounts, accountsABI, "tokenIdToName", []any{&ns, &name}, tokenID); err != nil {
		return "", "", err
	}
	return ns, name, nil
}

func (c *xayaClient) OwnerOf(ctx context.Context, tokenID *big.Int) (string, error) {
	var owner common.Address
	if err := c.call(ctx, c.accounts, accountsABI, "ownerOf", []any{&owner}, tokenID); err != nil {
		return "", err
	}
	return owner.Hex(), nil
}

func (c *xayaClient) GetApproved(ctx context.Context, tokenID *big.Int) (string, error) {
	var approved common.Address
	if err := c.call(ctx, c.accounts, accountsABI, "getApproved", []any{&approved}, tokenID); err != nil {
		return "", err
	}
	return approved.Hex(), nil
}

func (c *xayaClient) IsApprovedForAll(ctx context.Context, owner, operator string) (bool, error) {
	var approved bool
	err := c.call(ctx, c.accounts, accountsABI, "isApprovedForAll", []any{&approved},
		common.HexToAddress(owner), common.HexToAddress(operator))
	if err != nil {
		return false, err
	}
	return approved, nil
}

func (c *xayaClient) BalanceOf(ctx context.Context, address string) (*big.Int, error) {
	var balance *big.Int
	if err := c.call(ctx, c.wchi, wchiABI, "balanceOf", []any{&balance}, common.HexToAddress(address)); err != nil {
		return nil, err
	}
	return balance, nil
}

func (c *xayaClient) Allowance(ctx context.Context, owner, spender string) (*big.Int, error) {
	var allowance *big.Int
	err := c.call(ctx, c.wchi, wchiABI, "allowance", []any{&allowance},
		common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return nil, err
	}
	return allowance, nil
}

func (c *xayaClient) DefinedKeys(ctx context.Context, tokenID *big.Int, owner string, path []string) ([]string, []string, []string, error) {
	if path == nil {
		path = []string{}
	}

	var children []string
	var fullAccess, fallbackAccess []common.Address
	err := c.call(ctx, c.delegation, delegationABI, "getDefinedKeys",
		[]any{&children, &fullAccess, &fallbackAccess},
		tokenID, common.HexToAddress(owner), path)
	if err != nil {
		return nil, nil, nil, err
	}

	return children, hexAddresses(fullAccess), hexAddresses(fallbackAccess), nil
}

func (c *xayaClient) Expiration(ctx context.Context, tokenID *big.Int, owner string, path []string, operator string, fallbackOnly bool) (*big.Int, error) {
	if path == nil {
		path = []string{}
	}

	var expiration *big.Int
	err := c.call(ctx, c.delegation, delegationABI, "getExpiration", []any{&expiration},
		tokenID, common.HexToAddress(owner), path, common.HexToAddress(operator), fallbackOnly)
	if err != nil {
		return nil, err
	}
	return expiration, nil
}

func (c *xayaClient) HasAccess(ctx context.Context, ns, name string, path []string, operator string, at *big.Int) (bool, error) {
	if path == nil {
		path = []string{}
	}

	var allowed bool
	err := c.call(ctx, c.delegation, delegationABI, "hasAccess", []any{&allowed},
		ns, name, path, common.HexToAddress(operator), at)
	if err != nil {
		return false, err
	}
	return allowed, nil
}

func (c *xayaClient) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureNodeUnavailable, "failed to get chain id: %v", err)
	}
	return id, nil
}

func (c *xayaClient) BlockNumber(ctx context.Context) (uint64, error) {
	head, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, domain.NewFailure(domain.FailureNodeUnavailable, "failed to get chain head: %v", err)
	}
	return head, nil
}

func (c *xayaClient) Decimals() uint8 {
	return c.decimals
}

func (c *xayaClient) Contracts() (string, string, string) {
	return c.accounts.Hex(), c.wchi.Hex(), c.delegation.Hex()
}

func (c *xayaClient) Close() {
	c.client.Close()
}

func hexAddresses(addrs []common.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}
