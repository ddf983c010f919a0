package resolver

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/xaya/xaya-mcp-server/internal/codec"
	"github.com/xaya/xaya-mcp-server/internal/domain"
)

// maxPermissionDepth bounds the recursive tree walk. The contract does not
// limit nesting, so a runaway tree must not turn into unbounded call fan-out.
const maxPermissionDepth = 32

// moveGraceSeconds is how far into the future a permission check is
// evaluated, covering the time between the check and the move landing
// on-chain.
const moveGraceSeconds = 60

// DelegationPermissions returns the hierarchical delegation state of a
// name. When subject is non-empty, only grants for that address are
// reported; the tree structure is kept either way.
func (r *Resolver) DelegationPermissions(ctx context.Context, ns, name, subject string) domain.Envelope {
	tokenID, err := codec.TokenIDForName(ns, name)
	if err != nil {
		return rejected("identity", "invalid name: %v", err)
	}
	if subject != "" {
		subject, err = codec.NormalizeAddress(subject)
		if err != nil {
			return rejected("identity", "invalid address: %v", err)
		}
	}

	var owner string
	ownerErrs := r.dispatch(ctx, []subQuery{{
		field:    "owner",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			var err error
			owner, err = r.chain.OwnerOf(ctx, tokenID)
			return err
		},
	}})
	if len(ownerErrs) > 0 {
		// Everything below keys off the owner; without it there is nothing
		// partial to report.
		return domain.Envelope{Status: domain.StatusFailed, Errors: ownerErrs}
	}

	var (
		approved bool
		root     domain.PermissionNode
	)
	errs := r.dispatch(ctx, []subQuery{
		{
			field:    "approved",
			fallback: domain.FailureNodeUnavailable,
			run: func(ctx context.Context) error {
				var err error
				approved, err = r.delegationApproved(ctx, tokenID, owner)
				return err
			},
		},
		{
			field:    "permissions",
			fallback: domain.FailureNodeUnavailable,
			run: func(ctx context.Context) error {
				var err error
				root, err = r.permissionTree(ctx, tokenID, owner, nil, subject, 0)
				return err
			},
		},
	})

	env := domain.Envelope{Status: classify(3, errs), Errors: errs}
	if env.Status != domain.StatusFailed {
		env.Data = domain.DelegationPermissions{
			Owner:    owner,
			TokenID:  tokenID.String(),
			Approved: approved,
			Root:     root,
		}
	}
	return env
}

// delegationApproved reports whether the delegation contract itself may act
// for the token, either through a blanket operator approval or the
// per-token approval slot.
func (r *Resolver) delegationApproved(ctx context.Context, tokenID *big.Int, owner string) (bool, error) {
	_, _, delegation := r.chain.Contracts()

	approved, err := r.chain.IsApprovedForAll(ctx, owner, delegation)
	if err != nil || approved {
		return approved, err
	}

	perToken, err := r.chain.GetApproved(ctx, tokenID)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(perToken, delegation), nil
}

// permissionTree walks the delegation tree depth-first. The walk is
// sequential: each level's children are only known once the parent has
// answered.
func (r *Resolver) permissionTree(ctx context.Context, tokenID *big.Int, owner string, path []string, subject string, depth int) (domain.PermissionNode, error) {
	node := domain.PermissionNode{}
	if len(path) > 0 {
		node.Key = path[len(path)-1]
	}
	if depth > maxPermissionDepth {
		return node, domain.NewFailure(domain.FailureDecodeError,
			"permission tree exceeds %d levels", maxPermissionDepth)
	}

	children, fullAccess, fallbackAccess, err := r.chain.DefinedKeys(ctx, tokenID, owner, path)
	if err != nil {
		return node, err
	}

	node.FullAccess, err = r.grants(ctx, tokenID, owner, path, fullAccess, subject, false)
	if err != nil {
		return node, err
	}
	node.FallbackAccess, err = r.grants(ctx, tokenID, owner, path, fallbackAccess, subject, true)
	if err != nil {
		return node, err
	}

	for _, key := range children {
		childPath := append(path[:len(path):len(path)], key)
		child, err := r.permissionTree(ctx, tokenID, owner, childPath, subject, depth+1)
		if err != nil {
			return node, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// grants resolves the expiration of each listed grant, filtered to the
// subject when one is given.
func (r *Resolver) grants(ctx context.Context, tokenID *big.Int, owner string, path []string, addresses []string, subject string, fallbackOnly bool) ([]domain.AccessGrant, error) {
	var out []domain.AccessGrant
	for _, addr := range addresses {
		if subject != "" && !strings.EqualFold(addr, subject) {
			continue
		}
		expiration, err := r.chain.Expiration(ctx, tokenID, owner, path, addr, fallbackOnly)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.AccessGrant{
			Address:    addr,
			Expiration: expiration.String(),
		})
	}
	return out, nil
}

// MovePermission checks, without sending anything, whether subject could
// submit the given move for a name right now. Ownership and operator
// approvals grant the full move; otherwise the move's leading single-key
// objects are peeled into a delegation path and checked against the
// delegation contract, evaluated slightly in the future so the answer
// stays valid while the transaction is in flight.
func (r *Resolver) MovePermission(ctx context.Context, ns, name, subject string, move json.RawMessage) domain.Envelope {
	tokenID, err := codec.TokenIDForName(ns, name)
	if err != nil {
		return rejected("permission", "invalid name: %v", err)
	}
	subject, err = codec.NormalizeAddress(subject)
	if err != nil {
		return rejected("permission", "invalid address: %v", err)
	}
	if !json.Valid(move) {
		return rejected("permission", "move is not valid JSON")
	}

	var result domain.MovePermission
	return r.single(ctx, subQuery{
		field:    "permission",
		fallback: domain.FailureNodeUnavailable,
		run: func(ctx context.Context) error {
			var err error
			result, err = r.movePermission(ctx, tokenID, ns, name, subject, move)
			return err
		},
	}, func() any { return result })
}

func (r *Resolver) movePermission(ctx context.Context, tokenID *big.Int, ns, name, subject string, move json.RawMessage) (domain.MovePermission, error) {
	out := domain.MovePermission{Address: subject}

	owner, err := r.chain.OwnerOf(ctx, tokenID)
	if err != nil {
		return out, err
	}

	if strings.EqualFold(owner, subject) {
		return r.directPermission(out, move, "address owns the name")
	}

	perToken, err := r.chain.GetApproved(ctx, tokenID)
	if err != nil {
		return out, err
	}
	if strings.EqualFold(perToken, subject) {
		return r.directPermission(out, move, "address is approved for this name")
	}

	operator, err := r.chain.IsApprovedForAll(ctx, owner, subject)
	if err != nil {
		return out, err
	}
	if operator {
		return r.directPermission(out, move, "address is an approved operator of the owner")
	}

	// Only the delegation route is left; it requires the delegation
	// contract itself to be approved for the token.
	approved, err := r.delegationApproved(ctx, tokenID, owner)
	if err != nil {
		return out, err
	}
	if !approved {
		out.Reason = "delegation contract is not approved for this name"
		return out, nil
	}

	path, remainder, err := codec.SplitMovePath(move)
	if err != nil {
		return out, domain.NewFailure(domain.FailureQueryRejected, "invalid move: %v", err)
	}

	at := big.NewInt(r.clock.Now().Unix() + moveGraceSeconds)
	allowed, err := r.chain.HasAccess(ctx, ns, name, path, subject, at)
	if err != nil {
		return out, err
	}

	out.Allowed = allowed
	out.Delegated = allowed
	if allowed {
		out.Path = path
		canonical, err := codec.CanonicalJSON(remainder)
		if err != nil {
			return out, domain.NewFailure(domain.FailureQueryRejected, "%v", err)
		}
		out.Move = canonical
	} else {
		out.Reason = "no delegation grant covers this move"
	}
	return out, nil
}

// directPermission fills a permission result for a subject that may send
// the complete move without going through the delegation contract.
func (r *Resolver) directPermission(out domain.MovePermission, move json.RawMessage, reason string) (domain.MovePermission, error) {
	canonical, err := codec.CanonicalJSON(move)
	if err != nil {
		return out, domain.NewFailure(domain.FailureQueryRejected, "%v", err)
	}
	out.Allowed = true
	out.Move = canonical
	out.Reason = reason
	return out, nil
}
