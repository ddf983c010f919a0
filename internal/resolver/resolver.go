// Package resolver is the aggregation core of the server. It fans
// independent sub-queries out across the chain and index backends on a
// shared worker pool, applies a per-sub-query timeout and retry budget, and
// merges whatever settled into a single envelope. Partial answers are valid
// answers: a failed sub-query becomes a field error, never a lost response.
package resolver

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/xaya/xaya-mcp-server/internal/adapter"
	"github.com/xaya/xaya-mcp-server/internal/codec"
	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/logger"
	"github.com/xaya/xaya-mcp-server/internal/providers/ethereum"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
)

// Config holds the aggregation tuning knobs.
type Config struct {
	// SubQueryTimeout bounds every individual backend attempt.
	SubQueryTimeout time.Duration
	// RetryAttempts is the retry budget per sub-query, on top of the first
	// attempt. Non-transient failures never consume it.
	RetryAttempts int
	// RetryBackoff is the constant delay between attempts.
	RetryBackoff time.Duration
	// PoolSize and QueueSize dimension the shared worker pool.
	PoolSize  int
	QueueSize int
	// StalenessThreshold is the index lag, in blocks, above which envelopes
	// carry a staleness warning.
	StalenessThreshold uint64
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.SubQueryTimeout <= 0 {
		out.SubQueryTimeout = 10 * time.Second
	}
	if out.RetryBackoff <= 0 {
		out.RetryBackoff = 500 * time.Millisecond
	}
	if out.PoolSize <= 0 {
		out.PoolSize = 64
	}
	if out.QueueSize <= 0 {
		out.QueueSize = 1024
	}
	return out
}

// Resolver answers read-only questions about Xaya names by combining the
// authoritative chain state with the indexed history.
type Resolver struct {
	cfg   Config
	chain ethereum.XayaClient
	index subgraph.Client
	clock adapter.Clock
	pool  pond.Pool
}

// New creates a resolver on top of the two backends.
func New(cfg Config, chain ethereum.XayaClient, index subgraph.Client, clock adapter.Clock) *Resolver {
	cfg = (&cfg).withDefaults()
	return &Resolver{
		cfg:   cfg,
		chain: chain,
		index: index,
		clock: clock,
		pool:  pond.NewPool(cfg.PoolSize, pond.WithQueueSize(cfg.QueueSize)),
	}
}

// Close drains the worker pool. In-flight sub-queries finish; nothing new
// is accepted.
func (r *Resolver) Close() {
	r.pool.StopAndWait()
}

// subQuery is one independently retried unit of backend work. The run
// closure writes its result into variables owned by the caller; results are
// only read after the sub-query has settled.
type subQuery struct {
	field    string
	fallback domain.FailureKind
	run      func(ctx context.Context) error
}

// dispatch runs the sub-queries concurrently on the shared pool and waits
// for all of them to settle. The returned field errors are ordered by
// sub-query declaration, so the merge does not depend on completion order.
func (r *Resolver) dispatch(ctx context.Context, queries []subQuery) []domain.FieldError {
	tasks := make([]pond.Task, len(queries))
	for i, q := range queries {
		q := q
		tasks[i] = r.pool.SubmitErr(func() error {
			return r.runOne(ctx, q)
		})
	}

	var errs []domain.FieldError
	for i, task := range tasks {
		if err := task.Wait(); err != nil {
			logger.Debug("sub-query failed",
				zap.String("field", queries[i].field),
				zap.Error(err))
			errs = append(errs, domain.FieldError{
				Field:   queries[i].field,
				Kind:    domain.KindOf(err, queries[i].fallback),
				Message: err.Error(),
			})
		}
	}
	return errs
}

// runOne executes one sub-query under its timeout and retry budget.
// Timeouts and availability failures are retried; NotFound, rejected
// queries and undecodable responses are answers, not transient conditions.
func (r *Resolver) runOne(ctx context.Context, q subQuery) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.cfg.RetryBackoff), uint64(r.cfg.RetryAttempts)),
		ctx)

	return backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.SubQueryTimeout)
		defer cancel()

		err := q.run(attemptCtx)
		if err == nil {
			return nil
		}
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return domain.NewFailure(domain.FailureTimeout,
				"%s did not answer within %s", q.field, r.cfg.SubQueryTimeout)
		}

		switch domain.KindOf(err, q.fallback) {
		case domain.FailureNotFound, domain.FailureQueryRejected, domain.FailureDecodeError:
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

// classify derives the envelope status from how many of the dispatched
// sub-queries failed.
func classify(total int, errs []domain.FieldError) domain.Status {
	switch {
	case len(errs) == 0:
		return domain.StatusComplete
	case len(errs) >= total:
		return domain.StatusFailed
	default:
		return domain.StatusPartial
	}
}

// rejected short-circuits an operation whose inputs are malformed. No
// backend is contacted.
func rejected(field, format string, args ...any) domain.Envelope {
	return domain.Envelope{
		Status: domain.StatusFailed,
		Errors: []domain.FieldError{{
			Field:   field,
			Kind:    domain.FailureQueryRejected,
			Message: fmt.Sprintf(format, args...),
		}},
	}
}

func complete(data any) domain.Envelope {
	return domain.Envelope{Status: domain.StatusComplete, Data: data}
}

// single runs one sub-query and wraps its result. data is only consulted
// when the sub-query settled successfully.
func (r *Resolver) single(ctx context.Context, q subQuery, data func() any) domain.Envelope {
	if errs := r.dispatch(ctx, []subQuery{q}); len(errs) > 0 {
		return domain.Envelope{Status: domain.StatusFailed, Errors: errs}
	}
	return complete(data())
}

// TokenIDForName derives the token id of a name. The derivation is pure
// keccak arithmetic, so no backend is consulted.
func (r *Resolver) TokenIDForName(ctx context.Context, ns, name string) domain.Envelope {
	tokenID, err := codec.TokenIDForName(ns, name)
	if err != nil {
		return rejected("identity", "invalid name: %v", err)
	}
	return complete(domain.Identity{Namespace: ns, Name: name, TokenID: tokenID.String()})
}

// NameForTokenID reverses a token id to its namespace/name pair. Only names
// the registry has seen can be reversed; the hash is one-way.
func (r *Resolver) NameForTokenID(ctx context.Context, tokenID string) domain.Envelope {
	id, err := codec.ParseTokenID(tokenID)
	if err != nil {
		return rejected("identity", "invalid token id: %v", err)
	}

	var ns, name string
	return r.single(ctx, subQuery{
		field:    "identity",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			var err error
			ns, name, err = r.chain.TokenIDToName(ctx, id)
			return err
		},
	}, func() any {
		return domain.Identity{Namespace: ns, Name: name, TokenID: id.String()}
	})
}

// Owner resolves a name and returns its current ownership state.
func (r *Resolver) Owner(ctx context.Context, ns, name string) domain.Envelope {
	tokenID, err := codec.TokenIDForName(ns, name)
	if err != nil {
		return rejected("identity", "invalid name: %v", err)
	}
	return r.ownership(ctx, tokenID)
}

// OwnerByID returns the current ownership state of a token id.
func (r *Resolver) OwnerByID(ctx context.Context, tokenID string) domain.Envelope {
	id, err := codec.ParseTokenID(tokenID)
	if err != nil {
		return rejected("identity", "invalid token id: %v", err)
	}
	return r.ownership(ctx, id)
}

func (r *Resolver) ownership(ctx context.Context, tokenID *big.Int) domain.Envelope {
	var record domain.OwnershipRecord
	return r.single(ctx, subQuery{
		field:    "owner",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			owner, err := r.chain.OwnerOf(ctx, tokenID)
			if err != nil {
				return err
			}
			approved, err := r.chain.GetApproved(ctx, tokenID)
			if err != nil {
				return err
			}
			record = domain.OwnershipRecord{
				TokenID:  tokenID.String(),
				Owner:    owner,
				Approved: nonZeroAddress(approved),
			}
			return nil
		},
	}, func() any { return record })
}

// Balance returns the WCHI balance of an address. A zero balance is a
// complete answer; only an unreachable node fails the query.
func (r *Resolver) Balance(ctx context.Context, address string) domain.Envelope {
	addr, err := codec.NormalizeAddress(address)
	if err != nil {
		return rejected("balance", "%v", err)
	}

	var balance domain.Balance
	return r.single(ctx, subQuery{
		field:    "balance",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			raw, err := r.chain.BalanceOf(ctx, addr)
			if err != nil {
				return err
			}
			balance = r.wchiAmountFor(addr, raw)
			return nil
		},
	}, func() any { return balance })
}

// Allowance returns the WCHI amount a spender may move on behalf of an
// owner.
func (r *Resolver) Allowance(ctx context.Context, owner, spender string) domain.Envelope {
	ownerAddr, err := codec.NormalizeAddress(owner)
	if err != nil {
		return rejected("allowance", "invalid owner: %v", err)
	}
	spenderAddr, err := codec.NormalizeAddress(spender)
	if err != nil {
		return rejected("allowance", "invalid spender: %v", err)
	}

	var allowance domain.Allowance
	return r.single(ctx, subQuery{
		field:    "allowance",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			raw, err := r.chain.Allowance(ctx, ownerAddr, spenderAddr)
			if err != nil {
				return err
			}
			_, wchi, _ := r.chain.Contracts()
			allowance = domain.Allowance{
				Owner:    ownerAddr,
				Spender:  spenderAddr,
				Token:    wchi,
				Raw:      raw.String(),
				Decimals: r.chain.Decimals(),
				Human:    codec.FormatUnits(raw, r.chain.Decimals()),
			}
			return nil
		},
	}, func() any { return allowance })
}

// ApprovedOperator returns the per-token approved address of a name, nil
// when no approval is set.
func (r *Resolver) ApprovedOperator(ctx context.Context, tokenID string) domain.Envelope {
	id, err := codec.ParseTokenID(tokenID)
	if err != nil {
		return rejected("approved", "invalid token id: %v", err)
	}

	var approved *string
	return r.single(ctx, subQuery{
		field:    "approved",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			addr, err := r.chain.GetApproved(ctx, id)
			if err != nil {
				return err
			}
			approved = nonZeroAddress(addr)
			return nil
		},
	}, func() any {
		return struct {
			TokenID  string  `json:"token_id"`
			Approved *string `json:"approved"`
		}{TokenID: id.String(), Approved: approved}
	})
}

// IsApprovedForAll reports whether an operator may act for every token of
// an owner.
func (r *Resolver) IsApprovedForAll(ctx context.Context, owner, operator string) domain.Envelope {
	ownerAddr, err := codec.NormalizeAddress(owner)
	if err != nil {
		return rejected("approved", "invalid owner: %v", err)
	}
	operatorAddr, err := codec.NormalizeAddress(operator)
	if err != nil {
		return rejected("approved", "invalid operator: %v", err)
	}

	var approved bool
	return r.single(ctx, subQuery{
		field:    "approved",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			var err error
			approved, err = r.chain.IsApprovedForAll(ctx, ownerAddr, operatorAddr)
			return err
		},
	}, func() any {
		return struct {
			Owner    string `json:"owner"`
			Operator string `json:"operator"`
			Approved bool   `json:"approved"`
		}{Owner: ownerAddr, Operator: operatorAddr, Approved: approved}
	})
}

// ChainInfo reports the chain id and the contract wiring discovered at
// startup.
func (r *Resolver) ChainInfo(ctx context.Context) domain.Envelope {
	var chainID *big.Int
	return r.single(ctx, subQuery{
		field:    "chain",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			var err error
			chainID, err = r.chain.ChainID(ctx)
			return err
		},
	}, func() any {
		accounts, wchi, delegation := r.chain.Contracts()
		return domain.ChainInfo{
			ChainID:            chainID.String(),
			AccountsContract:   accounts,
			WCHIContract:       wchi,
			DelegationContract: delegation,
		}
	})
}

// wchiAmountFor builds a Balance from a raw on-chain amount.
func (r *Resolver) wchiAmountFor(address string, raw *big.Int) domain.Balance {
	_, wchi, _ := r.chain.Contracts()
	return domain.Balance{
		Address:  address,
		Token:    wchi,
		Raw:      raw.String(),
		Decimals: r.chain.Decimals(),
		Human:    codec.FormatUnits(raw, r.chain.Decimals()),
	}
}

// nonZeroAddress maps the zero address to nil, since ERC-721 renders
// "no approval" as approval for the zero address.
func nonZeroAddress(addr string) *string {
	if addr == "" || addr == domain.ZeroAddress {
		return nil
	}
	return &addr
}
