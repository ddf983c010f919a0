package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
	"github.com/xaya/xaya-mcp-server/internal/resolver"
)

// Handler serves the REST mirror of the tool surface. Every endpoint
// returns the same envelope the MCP tools return; only the HTTP status
// varies with the envelope outcome.
type Handler struct {
	resolver *resolver.Resolver
}

// NewHandler creates a new REST handler
func NewHandler(res *resolver.Resolver) *Handler {
	return &Handler{resolver: res}
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetProfile handles GET /v1/names/:ns/:name
func (h *Handler) GetProfile(c *gin.Context) {
	respond(c, h.resolver.Profile(c.Request.Context(), c.Param("ns"), c.Param("name")))
}

// GetOwner handles GET /v1/names/:ns/:name/owner
func (h *Handler) GetOwner(c *gin.Context) {
	respond(c, h.resolver.Owner(c.Request.Context(), c.Param("ns"), c.Param("name")))
}

// GetTokenID handles GET /v1/names/:ns/:name/token-id
func (h *Handler) GetTokenID(c *gin.Context) {
	respond(c, h.resolver.TokenIDForName(c.Request.Context(), c.Param("ns"), c.Param("name")))
}

// GetRegistration handles GET /v1/names/:ns/:name/registration
func (h *Handler) GetRegistration(c *gin.Context) {
	respond(c, h.resolver.Registration(c.Request.Context(), c.Param("ns"), c.Param("name")))
}

// GetMovesForName handles GET /v1/names/:ns/:name/moves
func (h *Handler) GetMovesForName(c *gin.Context) {
	window, err := timeWindowQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, h.resolver.MovesForName(c.Request.Context(),
		c.Param("ns"), c.Param("name"), window, c.Query("cursor")))
}

// GetDelegationPermissions handles GET /v1/names/:ns/:name/permissions
func (h *Handler) GetDelegationPermissions(c *gin.Context) {
	respond(c, h.resolver.DelegationPermissions(c.Request.Context(),
		c.Param("ns"), c.Param("name"), c.Query("address")))
}

// movePermissionRequest is the body of a move permission check.
type movePermissionRequest struct {
	Address string          `json:"address" binding:"required"`
	Move    json.RawMessage `json:"move" binding:"required"`
}

// CheckMovePermission handles POST /v1/names/:ns/:name/permissions/check.
// The check is read-only; POST only carries the move body.
func (h *Handler) CheckMovePermission(c *gin.Context) {
	var req movePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, h.resolver.MovePermission(c.Request.Context(),
		c.Param("ns"), c.Param("name"), req.Address, req.Move))
}

// GetName handles GET /v1/tokens/:id
func (h *Handler) GetName(c *gin.Context) {
	respond(c, h.resolver.NameForTokenID(c.Request.Context(), c.Param("id")))
}

// GetOwnerByID handles GET /v1/tokens/:id/owner
func (h *Handler) GetOwnerByID(c *gin.Context) {
	respond(c, h.resolver.OwnerByID(c.Request.Context(), c.Param("id")))
}

// GetApproved handles GET /v1/tokens/:id/approved
func (h *Handler) GetApproved(c *gin.Context) {
	respond(c, h.resolver.ApprovedOperator(c.Request.Context(), c.Param("id")))
}

// GetBalance handles GET /v1/addresses/:address/balance
func (h *Handler) GetBalance(c *gin.Context) {
	respond(c, h.resolver.Balance(c.Request.Context(), c.Param("address")))
}

// GetNamesOwnedBy handles GET /v1/addresses/:address/names
func (h *Handler) GetNamesOwnedBy(c *gin.Context) {
	respond(c, h.resolver.NamesOwnedBy(c.Request.Context(), c.Param("address"), c.Query("cursor")))
}

// GetAllowance handles GET /v1/addresses/:address/allowances/:spender
func (h *Handler) GetAllowance(c *gin.Context) {
	respond(c, h.resolver.Allowance(c.Request.Context(), c.Param("address"), c.Param("spender")))
}

// GetOperatorApproval handles GET /v1/addresses/:address/operators/:operator
func (h *Handler) GetOperatorApproval(c *gin.Context) {
	respond(c, h.resolver.IsApprovedForAll(c.Request.Context(), c.Param("address"), c.Param("operator")))
}

// GetMovesForGame handles GET /v1/games/:game/moves
func (h *Handler) GetMovesForGame(c *gin.Context) {
	window, err := timeWindowQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	respond(c, h.resolver.MovesForGame(c.Request.Context(), c.Param("game"), window, c.Query("cursor")))
}

// GetChainInfo handles GET /v1/chain
func (h *Handler) GetChainInfo(c *gin.Context) {
	respond(c, h.resolver.ChainInfo(c.Request.Context()))
}

// respond writes the envelope with an HTTP status derived from its outcome.
// Partial envelopes are 200s: they carry usable data plus field errors.
func respond(c *gin.Context, env domain.Envelope) {
	c.JSON(statusFor(env), env)
}

func statusFor(env domain.Envelope) int {
	if env.Status != domain.StatusFailed {
		return http.StatusOK
	}
	if len(env.Errors) == 0 {
		return http.StatusBadGateway
	}
	switch env.Errors[0].Kind {
	case domain.FailureNotFound:
		return http.StatusNotFound
	case domain.FailureQueryRejected:
		return http.StatusBadRequest
	case domain.FailureTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, domain.Envelope{
		Status: domain.StatusFailed,
		Errors: []domain.FieldError{{
			Field:   "request",
			Kind:    domain.FailureQueryRejected,
			Message: err.Error(),
		}},
	})
}

// timeWindowQuery reads the optional from/to bounds from query parameters.
func timeWindowQuery(c *gin.Context) (subgraph.TimeWindow, error) {
	var window subgraph.TimeWindow

	if raw := c.Query("from"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return window, err
		}
		window.From = &v
	}
	if raw := c.Query("to"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return window, err
		}
		window.To = &v
	}

	return window, nil
}
