package subgraph_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaya/xaya-mcp-server/internal/adapter"
	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/mocks"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
)

const subgraphURL = "https://subgraph.example/xaya"

func newClient(httpClient adapter.HTTPClient, pageSize int) subgraph.Client {
	return subgraph.NewClient(subgraph.Config{
		URL:               subgraphURL,
		PageSize:          pageSize,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}, httpClient, adapter.NewJSON(), adapter.NewBase64())
}

func TestClient_Registration_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"data": {"registrations": [
			{"tx": {"id": "0xabc", "height": "100", "timestamp": "1700000000"}}
		]}}`), nil)

	client := newClient(mockHTTP, 10)
	reg, err := client.Registration(context.Background(), big.NewInt(77))

	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, "77", reg.TokenID)
	assert.Equal(t, "0xabc", reg.Tx.Hash)
	assert.Equal(t, uint64(100), reg.Tx.Height)
	assert.Equal(t, int64(1700000000), reg.Tx.Timestamp.Unix())
}

func TestClient_Registration_NotObserved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"data": {"registrations": []}}`), nil)

	client := newClient(mockHTTP, 10)
	reg, err := client.Registration(context.Background(), big.NewInt(77))

	// An empty result is a valid answer, not a failure.
	require.NoError(t, err)
	assert.Nil(t, reg)
}

func TestClient_Registration_TransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return(nil, errors.New("connection refused"))

	client := newClient(mockHTTP, 10)
	_, err := client.Registration(context.Background(), big.NewInt(77))

	require.Error(t, err)
	assert.Equal(t, domain.FailureIndexUnavailable, domain.KindOf(err, ""))
}

func TestClient_Registration_GraphQLErrorIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"errors": [{"message": "Unknown field \"registrationz\""}]}`), nil)

	client := newClient(mockHTTP, 10)
	_, err := client.Registration(context.Background(), big.NewInt(77))

	require.Error(t, err)
	assert.Equal(t, domain.FailureQueryRejected, domain.KindOf(err, ""))
}

func TestClient_Registration_MalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`<html>Bad Gateway</html>`), nil)

	client := newClient(mockHTTP, 10)
	_, err := client.Registration(context.Background(), big.NewInt(77))

	require.Error(t, err)
	assert.Equal(t, domain.FailureDecodeError, domain.KindOf(err, ""))
}

func TestClient_NamesOwnedBy_Pagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	// Three entries against a page size of two: the probe row signals a
	// continuation and is not part of the page.
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"data": {"names": [
			{"ns": {"ns": "p"}, "name": "alice"},
			{"ns": {"ns": "p"}, "name": "bob"},
			{"ns": {"ns": "p"}, "name": "carol"}
		]}}`), nil)

	client := newClient(mockHTTP, 2)
	page, err := client.NamesOwnedBy(context.Background(), "0xAAAA", "")

	require.NoError(t, err)
	require.Len(t, page.Names, 2)
	assert.Equal(t, "alice", page.Names[0].Name)
	assert.Equal(t, "bob", page.Names[1].Name)
	assert.NotEmpty(t, page.Cursor)

	// The next page picks up where the first left off.
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"data": {"names": [
			{"ns": {"ns": "p"}, "name": "carol"}
		]}}`), nil)

	next, err := client.NamesOwnedBy(context.Background(), "0xAAAA", page.Cursor)
	require.NoError(t, err)
	require.Len(t, next.Names, 1)
	assert.Equal(t, "carol", next.Names[0].Name)
	assert.Empty(t, next.Cursor)
}

func TestClient_NamesOwnedBy_InvalidCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)

	client := newClient(mockHTTP, 2)
	_, err := client.NamesOwnedBy(context.Background(), "0xAAAA", "not-a-cursor")

	require.Error(t, err)
	assert.Equal(t, domain.FailureQueryRejected, domain.KindOf(err, ""))
}

func TestClient_MovesForName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"data": {"moves": [
			{
				"tx": {"id": "0xdef", "height": 101, "timestamp": 1700000100},
				"games": [{"game": {"game": "taurion"}}],
				"move": "{\"taurion\":{\"m\":\"jump\"}}"
			}
		]}}`), nil)

	client := newClient(mockHTTP, 10)
	page, err := client.MovesForName(context.Background(), big.NewInt(77), subgraph.TimeWindow{}, "")

	require.NoError(t, err)
	require.Len(t, page.Moves, 1)
	move := page.Moves[0]
	assert.Equal(t, "0xdef", move.Tx.Hash)
	assert.Equal(t, uint64(101), move.Tx.Height)
	assert.Equal(t, []string{"taurion"}, move.Games)
	assert.JSONEq(t, `{"taurion":{"m":"jump"}}`, move.Payload)
	assert.Empty(t, page.Cursor)
}

func TestClient_MovesForGame(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"data": {"gameMoves": [
			{
				"move": {
					"tx": {"id": "0xdef", "height": 101, "timestamp": 1700000100},
					"name": {"ns": {"ns": "p"}, "name": "domob"}
				},
				"gamemove": "{\"m\":\"jump\"}"
			}
		]}}`), nil)

	client := newClient(mockHTTP, 10)
	page, err := client.MovesForGame(context.Background(), "taurion", subgraph.TimeWindow{}, "")

	require.NoError(t, err)
	require.Len(t, page.Moves, 1)
	move := page.Moves[0]
	require.NotNil(t, move.Name)
	assert.Equal(t, "p", move.Name.Namespace)
	assert.Equal(t, "domob", move.Name.Name)
	assert.JSONEq(t, `{"m":"jump"}`, move.Payload)
}

func TestClient_IndexedBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTP := mocks.NewMockHTTPClient(ctrl)
	mockHTTP.EXPECT().Post(gomock.Any(), subgraphURL, "application/json", gomock.Any()).
		Return([]byte(`{"data": {"_meta": {"block": {"number": 12345}}}}`), nil)

	client := newClient(mockHTTP, 10)
	block, err := client.IndexedBlock(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(12345), block)
}
