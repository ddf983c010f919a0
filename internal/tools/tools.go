// Package tools exposes the resolver as MCP tools. Every tool returns the
// same envelope shape as JSON text; partial and failed envelopes are valid
// tool results, protocol errors are reserved for malformed requests.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xaya/xaya-mcp-server/internal/adapter"
	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
	"github.com/xaya/xaya-mcp-server/internal/resolver"
)

const (
	serverName    = "xaya-mcp-server"
	serverVersion = "1.0.0"
)

// Server wires the resolver operations into an MCP server.
type Server struct {
	resolver *resolver.Resolver
	json     adapter.JSON
	mcp      *server.MCPServer
}

// NewServer creates the MCP server and registers all tools.
func NewServer(res *resolver.Resolver, jsonAdapter adapter.JSON) *Server {
	s := &Server{
		resolver: res,
		json:     jsonAdapter,
		mcp: server.NewMCPServer(serverName, serverVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server, for mounting on a transport.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// StreamableHTTP returns an HTTP transport serving the MCP protocol.
func (s *Server) StreamableHTTP() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("getNameProfile",
		mcp.WithDescription("Resolve everything known about a Xaya name in one query: ownership, approval, registration, recent moves, the owner's WCHI balance and the delegation state. Partial results carry per-field errors."),
		mcp.WithString("ns", mcp.Required(), mcp.Description("Namespace of the name, e.g. 'p' for player accounts or 'g' for games")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name within the namespace")),
	), s.handleProfile)

	s.mcp.AddTool(mcp.NewTool("nameToTokenId",
		mcp.WithDescription("Derive the ERC-721 token id of a Xaya name. The id is a pure hash of namespace and name."),
		mcp.WithString("ns", mcp.Required(), mcp.Description("Namespace of the name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name within the namespace")),
	), s.handleNameToTokenID)

	s.mcp.AddTool(mcp.NewTool("tokenIdToName",
		mcp.WithDescription("Reverse an ERC-721 token id to its namespace/name pair. Only names the registry has seen can be reversed."),
		mcp.WithString("tokenId", mcp.Required(), mcp.Description("Token id as a decimal or 0x-prefixed hex string")),
	), s.handleTokenIDToName)

	s.mcp.AddTool(mcp.NewTool("getOwner",
		mcp.WithDescription("Get the current owner of a Xaya name, plus its per-token approved address if one is set."),
		mcp.WithString("ns", mcp.Required(), mcp.Description("Namespace of the name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name within the namespace")),
	), s.handleOwner)

	s.mcp.AddTool(mcp.NewTool("getOwnerById",
		mcp.WithDescription("Get the current owner of a name token by its token id."),
		mcp.WithString("tokenId", mcp.Required(), mcp.Description("Token id as a decimal or 0x-prefixed hex string")),
	), s.handleOwnerByID)

	s.mcp.AddTool(mcp.NewTool("getWchiBalance",
		mcp.WithDescription("Get the WCHI token balance of an address, both raw and human-readable. A zero balance is a normal answer."),
		mcp.WithString("address", mcp.Required(), mcp.Description("Address to query")),
	), s.handleBalance)

	s.mcp.AddTool(mcp.NewTool("getWchiAllowance",
		mcp.WithDescription("Get the WCHI amount a spender may transfer on behalf of an owner."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Address owning the tokens")),
		mcp.WithString("spender", mcp.Required(), mcp.Description("Address allowed to spend")),
	), s.handleAllowance)

	s.mcp.AddTool(mcp.NewTool("getApproved",
		mcp.WithDescription("Get the per-token approved address of a name token, null when no approval is set."),
		mcp.WithString("tokenId", mcp.Required(), mcp.Description("Token id as a decimal or 0x-prefixed hex string")),
	), s.handleApproved)

	s.mcp.AddTool(mcp.NewTool("isApprovedForAll",
		mcp.WithDescription("Check whether an operator is approved for all name tokens of an owner."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Owner address")),
		mcp.WithString("operator", mcp.Required(), mcp.Description("Operator address")),
	), s.handleIsApprovedForAll)

	s.mcp.AddTool(mcp.NewTool("getDelegationPermissions",
		mcp.WithDescription("Get the hierarchical delegation permission tree of a name, optionally filtered to grants for one address."),
		mcp.WithString("ns", mcp.Required(), mcp.Description("Namespace of the name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name within the namespace")),
		mcp.WithString("address", mcp.Description("Only report grants for this address")),
	), s.handleDelegationPermissions)

	s.mcp.AddTool(mcp.NewTool("hasMovePermission",
		mcp.WithDescription("Check, without sending anything, whether an address could submit a given move for a name right now, either directly or through the delegation contract."),
		mcp.WithString("ns", mcp.Required(), mcp.Description("Namespace of the name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name within the namespace")),
		mcp.WithString("address", mcp.Required(), mcp.Description("Address that would send the move")),
		mcp.WithObject("move", mcp.Required(), mcp.Description("The move value as it would be submitted")),
	), s.handleMovePermission)

	s.mcp.AddTool(mcp.NewTool("getChainInfo",
		mcp.WithDescription("Get the chain id and the contract addresses the server runs against."),
	), s.handleChainInfo)

	s.mcp.AddTool(mcp.NewTool("getNameRegistration",
		mcp.WithDescription("Get the transaction in which a name was registered, from the index."),
		mcp.WithString("ns", mcp.Required(), mcp.Description("Namespace of the name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name within the namespace")),
	), s.handleRegistration)

	s.mcp.AddTool(mcp.NewTool("getNamesOwnedBy",
		mcp.WithDescription("List the names currently owned by an address, one page at a time. Pass the returned cursor to fetch the next page."),
		mcp.WithString("address", mcp.Required(), mcp.Description("Owner address")),
		mcp.WithString("cursor", mcp.Description("Continuation cursor from a previous page")),
	), s.handleNamesOwnedBy)

	s.mcp.AddTool(mcp.NewTool("getMovesForName",
		mcp.WithDescription("Get the move history of a name, newest first, one page at a time. Optionally bounded by a unix-seconds time window."),
		mcp.WithString("ns", mcp.Required(), mcp.Description("Namespace of the name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name within the namespace")),
		mcp.WithNumber("from", mcp.Description("Only moves at or after this unix timestamp")),
		mcp.WithNumber("to", mcp.Description("Only moves at or before this unix timestamp")),
		mcp.WithString("cursor", mcp.Description("Continuation cursor from a previous page")),
	), s.handleMovesForName)

	s.mcp.AddTool(mcp.NewTool("getMovesForGame",
		mcp.WithDescription("Get the move history of a game, newest first, one page at a time. Optionally bounded by a unix-seconds time window."),
		mcp.WithString("game", mcp.Required(), mcp.Description("The game name, without its namespace")),
		mcp.WithNumber("from", mcp.Description("Only moves at or after this unix timestamp")),
		mcp.WithNumber("to", mcp.Description("Only moves at or before this unix timestamp")),
		mcp.WithString("cursor", mcp.Description("Continuation cursor from a previous page")),
	), s.handleMovesForGame)
}

// envelope renders a resolver envelope as the tool result text.
func (s *Server) envelope(env domain.Envelope) (*mcp.CallToolResult, error) {
	body, err := s.json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize result: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := request.RequireString("ns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.Profile(ctx, ns, name))
}

func (s *Server) handleNameToTokenID(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := request.RequireString("ns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.TokenIDForName(ctx, ns, name))
}

func (s *Server) handleTokenIDToName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tokenID, err := request.RequireString("tokenId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.NameForTokenID(ctx, tokenID))
}

func (s *Server) handleOwner(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := request.RequireString("ns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.Owner(ctx, ns, name))
}

func (s *Server) handleOwnerByID(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tokenID, err := request.RequireString("tokenId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.OwnerByID(ctx, tokenID))
}

func (s *Server) handleBalance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := request.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.Balance(ctx, address))
}

func (s *Server) handleAllowance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := request.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	spender, err := request.RequireString("spender")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.Allowance(ctx, owner, spender))
}

func (s *Server) handleApproved(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tokenID, err := request.RequireString("tokenId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.ApprovedOperator(ctx, tokenID))
}

func (s *Server) handleIsApprovedForAll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := request.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	operator, err := request.RequireString("operator")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.IsApprovedForAll(ctx, owner, operator))
}

func (s *Server) handleDelegationPermissions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := request.RequireString("ns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	address := request.GetString("address", "")
	return s.envelope(s.resolver.DelegationPermissions(ctx, ns, name, address))
}

func (s *Server) handleMovePermission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := request.RequireString("ns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	address, err := request.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	moveArg, ok := request.GetArguments()["move"]
	if !ok {
		return mcp.NewToolResultError("move is required"), nil
	}
	move, err := s.json.Marshal(moveArg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid move: %v", err)), nil
	}

	return s.envelope(s.resolver.MovePermission(ctx, ns, name, address, json.RawMessage(move)))
}

func (s *Server) handleChainInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.envelope(s.resolver.ChainInfo(ctx))
}

func (s *Server) handleRegistration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := request.RequireString("ns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.envelope(s.resolver.Registration(ctx, ns, name))
}

func (s *Server) handleNamesOwnedBy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := request.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cursor := request.GetString("cursor", "")
	return s.envelope(s.resolver.NamesOwnedBy(ctx, address, cursor))
}

func (s *Server) handleMovesForName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ns, err := request.RequireString("ns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	window, err := timeWindow(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cursor := request.GetString("cursor", "")
	return s.envelope(s.resolver.MovesForName(ctx, ns, name, window, cursor))
}

func (s *Server) handleMovesForGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	game, err := request.RequireString("game")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	window, err := timeWindow(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cursor := request.GetString("cursor", "")
	return s.envelope(s.resolver.MovesForGame(ctx, game, window, cursor))
}

// timeWindow reads the optional from/to bounds of a history query.
func timeWindow(request mcp.CallToolRequest) (subgraph.TimeWindow, error) {
	var window subgraph.TimeWindow
	args := request.GetArguments()

	from, err := optionalUnixSeconds(args, "from")
	if err != nil {
		return window, err
	}
	to, err := optionalUnixSeconds(args, "to")
	if err != nil {
		return window, err
	}

	window.From = from
	window.To = to
	return window, nil
}

func optionalUnixSeconds(args map[string]any, key string) (*int64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	// JSON numbers arrive as float64.
	f, ok := raw.(float64)
	if !ok {
		return nil, fmt.Errorf("%s must be a unix timestamp in seconds", key)
	}
	v := int64(f)
	return &v, nil
}
