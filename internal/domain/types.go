package domain

import (
	"time"
)

// Identity pairs a human-readable Xaya name with its derived token id.
// The token id is the decimal rendering of
// uint256(keccak256(ns || 0x00 || name)).
type Identity struct {
	Namespace string `json:"ns"`
	Name      string `json:"name"`
	TokenID   string `json:"token_id,omitempty"`
}

// OwnershipRecord is the current on-chain ownership state of a name token.
type OwnershipRecord struct {
	TokenID  string  `json:"token_id"`
	Owner    string  `json:"owner"`
	Approved *string `json:"approved,omitempty"` // per-token approval, nil when unset
}

// Balance is a WCHI balance at native precision plus its exact human
// rendering. Raw is never pre-divided; Human is produced by integer
// arithmetic only.
type Balance struct {
	Address  string `json:"address"`
	Token    string `json:"token"`
	Raw      string `json:"raw"`
	Decimals uint8  `json:"decimals"`
	Human    string `json:"human"`
}

// Allowance is the WCHI amount a spender may transfer on behalf of an owner.
type Allowance struct {
	Owner    string `json:"owner"`
	Spender  string `json:"spender"`
	Token    string `json:"token"`
	Raw      string `json:"raw"`
	Decimals uint8  `json:"decimals"`
	Human    string `json:"human"`
}

// AccessGrant is a single delegation grant with its expiration.
// Expiration is unix seconds; the contract uses max-uint for "never",
// rendered here as a decimal string at native precision.
type AccessGrant struct {
	Address    string `json:"address"`
	Expiration string `json:"expiration"`
}

// PermissionNode is one node of the hierarchical delegation permission
// tree kept by the XayaDelegation contract.
type PermissionNode struct {
	Key            string           `json:"key,omitempty"`
	Children       []PermissionNode `json:"children,omitempty"`
	FullAccess     []AccessGrant    `json:"full_access,omitempty"`
	FallbackAccess []AccessGrant    `json:"fallback_access,omitempty"`
}

// DelegationPermissions is the full delegation state of a name: whether the
// delegation contract itself may act for the token, plus the permission tree.
type DelegationPermissions struct {
	Owner    string         `json:"owner"`
	TokenID  string         `json:"token_id"`
	Approved bool           `json:"approved"`
	Root     PermissionNode `json:"permissions"`
}

// TxRef points at the transaction an indexed event came from.
type TxRef struct {
	Hash      string    `json:"txid"`
	Height    uint64    `json:"height"`
	Timestamp time.Time `json:"timestamp"`
}

// Registration is the indexed registration event of a name token.
type Registration struct {
	TokenID string `json:"token_id"`
	Tx      TxRef  `json:"tx"`
}

// Move is one indexed move. Name is set for per-game queries, Games for
// per-name queries; Payload carries the raw move JSON as submitted.
type Move struct {
	Tx      TxRef     `json:"tx"`
	Name    *Identity `json:"name,omitempty"`
	Games   []string  `json:"games,omitempty"`
	Payload string    `json:"move"`
}

// MovesPage is one page of a lazily paginated move history. Cursor is an
// opaque continuation token; empty means the sequence is exhausted.
type MovesPage struct {
	Moves  []Move `json:"moves"`
	Cursor string `json:"cursor,omitempty"`
}

// NamesPage is one page of names owned by an address.
type NamesPage struct {
	Names  []Identity `json:"names"`
	Cursor string     `json:"cursor,omitempty"`
}

// Staleness describes how far the index lags behind the chain head.
type Staleness struct {
	IndexedBlock uint64 `json:"indexed_block"`
	ChainHead    uint64 `json:"chain_head"`
	LagBlocks    uint64 `json:"lag_blocks"`
}

// ChainInfo reports the chain and contract wiring the server runs against.
type ChainInfo struct {
	ChainID            string `json:"chain_id"`
	AccountsContract   string `json:"accounts_contract"`
	WCHIContract       string `json:"wchi_contract"`
	DelegationContract string `json:"delegation_contract"`
}

// MovePermission is the result of a read-only move permission check.
// Move carries the canonical (JCS) serialization the subject would submit:
// the full move for direct permission, the path remainder for delegation.
type MovePermission struct {
	Allowed   bool     `json:"has_permission"`
	Delegated bool     `json:"delegation"`
	Address   string   `json:"address"`
	Path      []string `json:"path,omitempty"`
	Move      string   `json:"move,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// Profile is the composite answer to "resolve this name's full profile".
// Fields are populated independently; a missing field has a matching entry
// in the envelope's error list.
type Profile struct {
	Identity     Identity               `json:"identity"`
	Owner        string                 `json:"owner,omitempty"`
	Burned       bool                   `json:"burned,omitempty"`
	Approved     *string                `json:"approved,omitempty"`
	Registration *TxRef                 `json:"registration,omitempty"`
	Moves        []Move                 `json:"moves,omitempty"`
	Balance      *Balance               `json:"balance,omitempty"`
	Delegation   *DelegationPermissions `json:"delegation,omitempty"`
}

// Status classifies a query envelope.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusFailed   Status = "failed"
)

// FieldError attaches a failure to the specific field it kept empty.
type FieldError struct {
	Field   string      `json:"field"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// Envelope is the universal tool-facing result shape. Partial and failed
// envelopes are valid responses, never faults.
type Envelope struct {
	Status   Status       `json:"status"`
	Data     any          `json:"data,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	Warnings []FieldError `json:"warnings,omitempty"`
}
