package resolver

import (
	"context"
	"math/big"

	"github.com/xaya/xaya-mcp-server/internal/codec"
	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
)

// Profile resolves everything known about a name in one round: ownership
// and approval from the chain, registration and recent moves from the
// index, the WCHI balance of the owner and the delegation state. The name
// is resolved to its token id exactly once; a malformed name short-circuits
// before any backend is contacted.
func (r *Resolver) Profile(ctx context.Context, ns, name string) domain.Envelope {
	tokenID, err := codec.TokenIDForName(ns, name)
	if err != nil {
		return rejected("identity", "invalid name: %v", err)
	}

	profile := domain.Profile{
		Identity: domain.Identity{Namespace: ns, Name: name, TokenID: tokenID.String()},
	}

	staleCh := r.checkStaleness(ctx)

	// First round: everything that only needs the token id.
	var (
		owner string
		reg   *domain.Registration
		moves *domain.MovesPage
	)
	errs := r.dispatch(ctx, []subQuery{
		{
			field:    "owner",
			fallback: domain.FailureNodeUnavailable,
			run: func(ctx context.Context) error {
				var err error
				owner, err = r.chain.OwnerOf(ctx, tokenID)
				return err
			},
		},
		{
			field:    "registration",
			fallback: domain.FailureIndexUnavailable,
			run: func(ctx context.Context) error {
				var err error
				reg, err = r.index.Registration(ctx, tokenID)
				return err
			},
		},
		{
			field:    "moves",
			fallback: domain.FailureIndexUnavailable,
			run: func(ctx context.Context) error {
				var err error
				moves, err = r.index.MovesForName(ctx, tokenID, subgraph.TimeWindow{}, "")
				return err
			},
		},
	})
	total := 3

	if reg != nil {
		tx := reg.Tx
		profile.Registration = &tx
	}
	if moves != nil {
		profile.Moves = moves.Moves
	}

	// The chain answering "no owner" while the index has seen a
	// registration means the name existed and was burned; that is an
	// answer, not a missing field. Without a registration either, the name
	// simply does not exist.
	if ownerErr := takeError(&errs, "owner"); ownerErr != nil {
		registrationSettled := !hasError(errs, "registration")
		switch {
		case ownerErr.Kind == domain.FailureNotFound && reg != nil:
			profile.Burned = true
		case ownerErr.Kind == domain.FailureNotFound && registrationSettled:
			env := domain.Envelope{
				Status: domain.StatusFailed,
				Errors: []domain.FieldError{{
					Field:   "identity",
					Kind:    domain.FailureNotFound,
					Message: "name is not registered",
				}},
			}
			if warning := <-staleCh; warning != nil {
				env.Warnings = append(env.Warnings, *warning)
			}
			return env
		default:
			errs = append(errs, *ownerErr)
		}
	} else {
		profile.Owner = owner

		// Second round: fields that need the owner.
		secondErrs, secondTotal := r.ownerScopedFields(ctx, tokenID, owner, &profile)
		errs = append(errs, secondErrs...)
		total += secondTotal
	}

	env := domain.Envelope{Status: classify(total, errs), Errors: errs}
	if warning := <-staleCh; warning != nil {
		env.Warnings = append(env.Warnings, *warning)
	}
	if env.Status != domain.StatusFailed {
		env.Data = profile
	}
	return env
}

// ownerScopedFields fills the profile fields that depend on knowing the
// owner: the per-token approval, the owner's WCHI balance and the
// delegation state.
func (r *Resolver) ownerScopedFields(ctx context.Context, tokenID *big.Int, owner string, profile *domain.Profile) ([]domain.FieldError, int) {
	var (
		approved   string
		balance    *big.Int
		delegation *domain.DelegationPermissions
	)
	queries := []subQuery{
		{
			field:    "approved",
			fallback: domain.FailureNodeUnavailable,
			run: func(ctx context.Context) error {
				var err error
				approved, err = r.chain.GetApproved(ctx, tokenID)
				return err
			},
		},
		{
			field:    "balance",
			fallback: domain.FailureNodeUnavailable,
			run: func(ctx context.Context) error {
				var err error
				balance, err = r.chain.BalanceOf(ctx, owner)
				return err
			},
		},
		{
			field:    "delegation",
			fallback: domain.FailureNodeUnavailable,
			run: func(ctx context.Context) error {
				contractApproved, err := r.delegationApproved(ctx, tokenID, owner)
				if err != nil {
					return err
				}
				root, err := r.permissionTree(ctx, tokenID, owner, nil, "", 0)
				if err != nil {
					return err
				}
				delegation = &domain.DelegationPermissions{
					Owner:    owner,
					TokenID:  tokenID.String(),
					Approved: contractApproved,
					Root:     root,
				}
				return nil
			},
		},
	}

	errs := r.dispatch(ctx, queries)

	profile.Approved = nonZeroAddress(approved)
	if balance != nil {
		b := r.wchiAmountFor(owner, balance)
		profile.Balance = &b
	}
	profile.Delegation = delegation

	return errs, len(queries)
}

func hasError(errs []domain.FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// takeError removes and returns the error for one field, nil when the
// field settled successfully.
func takeError(errs *[]domain.FieldError, field string) *domain.FieldError {
	for i, e := range *errs {
		if e.Field == field {
			out := e
			*errs = append((*errs)[:i], (*errs)[i+1:]...)
			return &out
		}
	}
	return nil
}
