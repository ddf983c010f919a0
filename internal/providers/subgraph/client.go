// Package subgraph wraps the Xaya stats subgraph into typed domain
// operations. Each call issues a single structured GraphQL query; results
// are decoded eagerly at this boundary and pagination is exposed through
// opaque continuation cursors.
package subgraph

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/xaya/xaya-mcp-server/internal/adapter"
	"github.com/xaya/xaya-mcp-server/internal/codec"
	"github.com/xaya/xaya-mcp-server/internal/domain"
)

// TimeWindow optionally bounds a move history query by block timestamp
// (unix seconds, inclusive). Nil bounds are open.
type TimeWindow struct {
	From *int64
	To   *int64
}

// Client exposes the stats subgraph query surface
//
//go:generate mockgen -source=client.go -destination=../../mocks/subgraph_client.go -package=mocks -mock_names=Client=MockSubgraphClient
type Client interface {
	// Registration returns the registration event of a token id, nil when
	// the index has not observed one.
	Registration(ctx context.Context, tokenID *big.Int) (*domain.Registration, error)

	// NamesOwnedBy returns one page of names currently owned by an address.
	NamesOwnedBy(ctx context.Context, owner string, cursor string) (*domain.NamesPage, error)

	// MovesForName returns one page of moves for a token id, newest first.
	MovesForName(ctx context.Context, tokenID *big.Int, window TimeWindow, cursor string) (*domain.MovesPage, error)

	// MovesForGame returns one page of moves for a game, newest first.
	MovesForGame(ctx context.Context, game string, window TimeWindow, cursor string) (*domain.MovesPage, error)

	// IndexedBlock returns the chain height the index has processed up to.
	IndexedBlock(ctx context.Context) (uint64, error)
}

type client struct {
	url        string
	pageSize   int
	httpClient adapter.HTTPClient
	json       adapter.JSON
	base64     adapter.Base64
	limiter    *rate.Limiter
}

// Config holds the subgraph client configuration
type Config struct {
	URL               string
	PageSize          int
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a new stats subgraph client
func NewClient(cfg Config, httpClient adapter.HTTPClient, json adapter.JSON, base64 adapter.Base64) Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &client{
		url:        cfg.URL,
		pageSize:   cfg.PageSize,
		httpClient: httpClient,
		json:       json,
		base64:     base64,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// graphQLRequest represents a GraphQL request
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError represents one entry of a GraphQL error response
type graphQLError struct {
	Message string `json:"message"`
}

// flexUint decodes a JSON number that The Graph may serialize as either a
// bare number (Int) or a string (BigInt).
type flexUint uint64

func (f *flexUint) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", string(b), err)
	}
	*f = flexUint(v)
	return nil
}

// txFields is the tx sub-object shared by all event entities
type txFields struct {
	ID        string   `json:"id"`
	Height    flexUint `json:"height"`
	Timestamp flexUint `json:"timestamp"`
}

func (t *txFields) toDomain() domain.TxRef {
	return domain.TxRef{
		Hash:      t.ID,
		Height:    uint64(t.Height),
		Timestamp: time.Unix(int64(t.Timestamp), 0).UTC(),
	}
}

// query executes one GraphQL query and decodes the data payload into out.
// Transport failures classify as IndexUnavailable, GraphQL-level errors as
// QueryRejected, undecodable payloads as DecodeError.
func (c *client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.NewFailure(domain.FailureIndexUnavailable, "rate limiter interrupted: %v", err)
	}

	body, err := c.json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return domain.NewFailure(domain.FailureQueryRejected, "failed to marshal query: %v", err)
	}

	respBody, err := c.httpClient.Post(ctx, c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return domain.NewFailure(domain.FailureIndexUnavailable, "subgraph request failed: %v", err)
	}

	var raw struct {
		Data   any            `json:"data"`
		Errors []graphQLError `json:"errors"`
	}
	raw.Data = out
	if err := c.json.Unmarshal(respBody, &raw); err != nil {
		return domain.NewFailure(domain.FailureDecodeError, "subgraph response did not match expected shape: %v", err)
	}

	if len(raw.Errors) > 0 {
		return domain.NewFailure(domain.FailureQueryRejected, "subgraph rejected query: %s", raw.Errors[0].Message)
	}

	return nil
}

const registrationQuery = `query ($name: String!) {
  registrations(where: {name: $name}) {
    tx { id height timestamp }
  }
}`

func (c *client) Registration(ctx context.Context, tokenID *big.Int) (*domain.Registration, error) {
	id, err := codec.SubgraphID(tokenID)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureQueryRejected, "invalid token id: %v", err)
	}

	var data struct {
		Registrations []struct {
			Tx txFields `json:"tx"`
		} `json:"registrations"`
	}
	if err := c.query(ctx, registrationQuery, map[string]any{"name": id}, &data); err != nil {
		return nil, err
	}

	// No registration observed is a valid empty result, not a failure.
	if len(data.Registrations) == 0 {
		return nil, nil
	}

	return &domain.Registration{
		TokenID: tokenID.String(),
		Tx:      data.Registrations[0].Tx.toDomain(),
	}, nil
}

const namesOwnedByQuery = `query ($owner: String!, $first: Int!, $skip: Int!) {
  names(where: {owner: $owner}, orderBy: id, orderDirection: asc, first: $first, skip: $skip) {
    ns { ns }
    name
  }
}`

func (c *client) NamesOwnedBy(ctx context.Context, owner string, cursor string) (*domain.NamesPage, error) {
	offset, err := c.decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	var data struct {
		Names []struct {
			NS struct {
				NS string `json:"ns"`
			} `json:"ns"`
			Name string `json:"name"`
		} `json:"names"`
	}
	vars := map[string]any{
		"owner": strings.ToLower(owner),
		"first": c.pageSize + 1, // probe one past the page to detect continuation
		"skip":  offset,
	}
	if err := c.query(ctx, namesOwnedByQuery, vars, &data); err != nil {
		return nil, err
	}

	page := &domain.NamesPage{Names: []domain.Identity{}}
	more := len(data.Names) > c.pageSize
	if more {
		data.Names = data.Names[:c.pageSize]
	}
	for _, n := range data.Names {
		page.Names = append(page.Names, domain.Identity{Namespace: n.NS.NS, Name: n.Name})
	}
	if more {
		page.Cursor = c.encodeCursor(offset + c.pageSize)
	}

	return page, nil
}

const movesForNameQuery = `query ($name: String!, $from: BigInt, $to: BigInt, $first: Int!, $skip: Int!) {
  moves(
    where: {name: $name, tx_: {timestamp_gte: $from, timestamp_lte: $to}},
    orderBy: tx__timestamp, orderDirection: desc, first: $first, skip: $skip
  ) {
    tx { id height timestamp }
    games { game { game } }
    move
  }
}`

const movesForNameUnboundedQuery = `query ($name: String!, $first: Int!, $skip: Int!) {
  moves(
    where: {name: $name},
    orderBy: tx__timestamp, orderDirection: desc, first: $first, skip: $skip
  ) {
    tx { id height timestamp }
    games { game { game } }
    move
  }
}`

func (c *client) MovesForName(ctx context.Context, tokenID *big.Int, window TimeWindow, cursor string) (*domain.MovesPage, error) {
	id, err := codec.SubgraphID(tokenID)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureQueryRejected, "invalid token id: %v", err)
	}

	offset, err := c.decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query, vars := movesForNameUnboundedQuery, map[string]any{
		"name":  id,
		"first": c.pageSize + 1,
		"skip":  offset,
	}
	if window.From != nil || window.To != nil {
		query = movesForNameQuery
		vars["from"] = windowBound(window.From, 0)
		vars["to"] = windowBound(window.To, maxTimestamp)
	}

	var data struct {
		Moves []struct {
			Tx    txFields `json:"tx"`
			Games []struct {
				Game struct {
					Game string `json:"game"`
				} `json:"game"`
			} `json:"games"`
			Move string `json:"move"`
		} `json:"moves"`
	}
	if err := c.query(ctx, query, vars, &data); err != nil {
		return nil, err
	}

	page := &domain.MovesPage{Moves: []domain.Move{}}
	more := len(data.Moves) > c.pageSize
	if more {
		data.Moves = data.Moves[:c.pageSize]
	}
	for _, m := range data.Moves {
		games := make([]string, 0, len(m.Games))
		for _, g := range m.Games {
			games = append(games, g.Game.Game)
		}
		page.Moves = append(page.Moves, domain.Move{
			Tx:      m.Tx.toDomain(),
			Games:   games,
			Payload: m.Move,
		})
	}
	if more {
		page.Cursor = c.encodeCursor(offset + c.pageSize)
	}

	return page, nil
}

const movesForGameQuery = `query ($game: String!, $from: BigInt, $to: BigInt, $first: Int!, $skip: Int!) {
  gameMoves(
    where: {game_: {game: $game}, move_: {tx_: {timestamp_gte: $from, timestamp_lte: $to}}},
    orderBy: move__tx__timestamp, orderDirection: desc, first: $first, skip: $skip
  ) {
    move {
      tx { id height timestamp }
      name { ns { ns } name }
    }
    gamemove
  }
}`

const movesForGameUnboundedQuery = `query ($game: String!, $first: Int!, $skip: Int!) {
  gameMoves(
    where: {game_: {game: $game}},
    orderBy: move__tx__timestamp, orderDirection: desc, first: $first, skip: $skip
  ) {
    move {
      tx { id height timestamp }
      name { ns { ns } name }
    }
    gamemove
  }
}`

func (c *client) MovesForGame(ctx context.Context, game string, window TimeWindow, cursor string) (*domain.MovesPage, error) {
	offset, err := c.decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query, vars := movesForGameUnboundedQuery, map[string]any{
		"game":  game,
		"first": c.pageSize + 1,
		"skip":  offset,
	}
	if window.From != nil || window.To != nil {
		query = movesForGameQuery
		vars["from"] = windowBound(window.From, 0)
		vars["to"] = windowBound(window.To, maxTimestamp)
	}

	var data struct {
		GameMoves []struct {
			Move struct {
				Tx   txFields `json:"tx"`
				Name struct {
					NS struct {
						NS string `json:"ns"`
					} `json:"ns"`
					Name string `json:"name"`
				} `json:"name"`
			} `json:"move"`
			GameMove string `json:"gamemove"`
		} `json:"gameMoves"`
	}
	if err := c.query(ctx, query, vars, &data); err != nil {
		return nil, err
	}

	page := &domain.MovesPage{Moves: []domain.Move{}}
	more := len(data.GameMoves) > c.pageSize
	if more {
		data.GameMoves = data.GameMoves[:c.pageSize]
	}
	for _, gm := range data.GameMoves {
		page.Moves = append(page.Moves, domain.Move{
			Tx: gm.Move.Tx.toDomain(),
			Name: &domain.Identity{
				Namespace: gm.Move.Name.NS.NS,
				Name:      gm.Move.Name.Name,
			},
			Payload: gm.GameMove,
		})
	}
	if more {
		page.Cursor = c.encodeCursor(offset + c.pageSize)
	}

	return page, nil
}

const metaQuery = `query {
  _meta { block { number } }
}`

func (c *client) IndexedBlock(ctx context.Context) (uint64, error) {
	var data struct {
		Meta struct {
			Block struct {
				Number flexUint `json:"number"`
			} `json:"block"`
		} `json:"_meta"`
	}
	if err := c.query(ctx, metaQuery, nil, &data); err != nil {
		return 0, err
	}
	return uint64(data.Meta.Block.Number), nil
}

// maxTimestamp is an effectively-open upper bound for timestamp filters.
const maxTimestamp = int64(1) << 62

func windowBound(v *int64, def int64) string {
	if v == nil {
		return strconv.FormatInt(def, 10)
	}
	return strconv.FormatInt(*v, 10)
}

const cursorPrefix = "o:"

func (c *client) encodeCursor(offset int) string {
	return c.base64.Encode([]byte(cursorPrefix + strconv.Itoa(offset)))
}

func (c *client) decodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}

	raw, err := c.base64.Decode(cursor)
	if err != nil {
		return 0, domain.NewFailure(domain.FailureQueryRejected, "invalid cursor: %v", err)
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, domain.NewFailure(domain.FailureQueryRejected, "invalid cursor")
	}
	offset, err := strconv.Atoi(s)
	if err != nil || offset < 0 {
		return 0, domain.NewFailure(domain.FailureQueryRejected, "invalid cursor offset")
	}

	return offset, nil
}
