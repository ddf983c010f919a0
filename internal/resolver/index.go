package resolver

import (
	"context"
	"fmt"

	"github.com/xaya/xaya-mcp-server/internal/codec"
	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
)

// checkStaleness probes how far the index lags behind the chain head,
// concurrently with the main sub-queries. The probe is best effort: if
// either backend does not answer, no warning is attached, and the main
// sub-queries surface the outage themselves.
func (r *Resolver) checkStaleness(ctx context.Context) <-chan *domain.FieldError {
	ch := make(chan *domain.FieldError, 1)
	r.pool.Submit(func() {
		ch <- r.stalenessWarning(ctx)
	})
	return ch
}

func (r *Resolver) stalenessWarning(ctx context.Context) *domain.FieldError {
	probeCtx, cancel := context.WithTimeout(ctx, r.cfg.SubQueryTimeout)
	defer cancel()

	indexed, err := r.index.IndexedBlock(probeCtx)
	if err != nil {
		return nil
	}
	head, err := r.chain.BlockNumber(probeCtx)
	if err != nil {
		return nil
	}
	if head <= indexed {
		return nil
	}

	lag := head - indexed
	if lag <= r.cfg.StalenessThreshold {
		return nil
	}
	return &domain.FieldError{
		Field: "index",
		Kind:  domain.WarningStaleIndex,
		Message: fmt.Sprintf("index is %d blocks behind the chain head (indexed %d, head %d)",
			lag, indexed, head),
	}
}

// indexed runs one index sub-query alongside a staleness probe and wraps
// the result.
func (r *Resolver) indexed(ctx context.Context, q subQuery, data func() any) domain.Envelope {
	staleCh := r.checkStaleness(ctx)
	errs := r.dispatch(ctx, []subQuery{q})

	env := domain.Envelope{}
	if warning := <-staleCh; warning != nil {
		env.Warnings = append(env.Warnings, *warning)
	}
	if len(errs) > 0 {
		env.Status = domain.StatusFailed
		env.Errors = errs
		return env
	}
	env.Status = domain.StatusComplete
	env.Data = data()
	return env
}

// Registration returns the indexed registration event of a name.
func (r *Resolver) Registration(ctx context.Context, ns, name string) domain.Envelope {
	tokenID, err := codec.TokenIDForName(ns, name)
	if err != nil {
		return rejected("registration", "invalid name: %v", err)
	}

	var reg *domain.Registration
	return r.indexed(ctx, subQuery{
		field:    "registration",
		fallback: domain.FailureIndexUnavailable,
		run: func(ctx context.Context) error {
			var err error
			reg, err = r.index.Registration(ctx, tokenID)
			if err != nil {
				return err
			}
			if reg == nil {
				return domain.NewFailure(domain.FailureNotFound,
					"no registration observed for %s/%s", ns, name)
			}
			return nil
		},
	}, func() any { return reg })
}

// NamesOwnedBy returns one page of names currently owned by an address.
func (r *Resolver) NamesOwnedBy(ctx context.Context, owner, cursor string) domain.Envelope {
	addr, err := codec.NormalizeAddress(owner)
	if err != nil {
		return rejected("names", "%v", err)
	}

	var page *domain.NamesPage
	return r.indexed(ctx, subQuery{
		field:    "names",
		fallback: domain.FailureIndexUnavailable,
		run: func(ctx context.Context) error {
			var err error
			page, err = r.index.NamesOwnedBy(ctx, addr, cursor)
			return err
		},
	}, func() any { return page })
}

// MovesForName returns one page of a name's move history, newest first.
func (r *Resolver) MovesForName(ctx context.Context, ns, name string, window subgraph.TimeWindow, cursor string) domain.Envelope {
	tokenID, err := codec.TokenIDForName(ns, name)
	if err != nil {
		return rejected("moves", "invalid name: %v", err)
	}

	var page *domain.MovesPage
	return r.indexed(ctx, subQuery{
		field:    "moves",
		fallback: domain.FailureIndexUnavailable,
		run: func(ctx context.Context) error {
			var err error
			page, err = r.index.MovesForName(ctx, tokenID, window, cursor)
			return err
		},
	}, func() any { return page })
}

// MovesForGame returns one page of a game's move history, newest first.
func (r *Resolver) MovesForGame(ctx context.Context, game string, window subgraph.TimeWindow, cursor string) domain.Envelope {
	if game == "" {
		return rejected("moves", "game must not be empty")
	}

	var page *domain.MovesPage
	return r.indexed(ctx, subQuery{
		field:    "moves",
		fallback: domain.FailureIndexUnavailable,
		run: func(ctx context.Context) error {
			var err error
			page, err = r.index.MovesForGame(ctx, game, window, cursor)
			return err
		},
	}, func() any { return page })
}
