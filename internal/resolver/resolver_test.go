package resolver_test

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaya/xaya-mcp-server/internal/adapter"
	"github.com/xaya/xaya-mcp-server/internal/codec"
	"github.com/xaya/xaya-mcp-server/internal/domain"
	"github.com/xaya/xaya-mcp-server/internal/logger"
	"github.com/xaya/xaya-mcp-server/internal/mocks"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
	"github.com/xaya/xaya-mcp-server/internal/resolver"
)

var (
	ownerAddr      = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa").Hex()
	subjectAddr    = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb").Hex()
	accountsAddr   = common.HexToAddress("0x1111111111111111111111111111111111111111").Hex()
	wchiAddr       = common.HexToAddress("0x2222222222222222222222222222222222222222").Hex()
	delegationAddr = common.HexToAddress("0x3333333333333333333333333333333333333333").Hex()
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func testConfig() resolver.Config {
	return resolver.Config{
		SubQueryTimeout:    2 * time.Second,
		RetryAttempts:      0,
		RetryBackoff:       10 * time.Millisecond,
		PoolSize:           8,
		QueueSize:          64,
		StalenessThreshold: 30,
	}
}

func newResolver(t *testing.T, cfg resolver.Config, chain *mocks.MockXayaClient, index *mocks.MockSubgraphClient) *resolver.Resolver {
	t.Helper()
	r := resolver.New(cfg, chain, index, adapter.NewClock())
	t.Cleanup(r.Close)
	return r
}

func expectContracts(chain *mocks.MockXayaClient) {
	chain.EXPECT().Contracts().Return(accountsAddr, wchiAddr, delegationAddr).AnyTimes()
	chain.EXPECT().Decimals().Return(uint8(8)).AnyTimes()
}

func expectFreshIndex(chain *mocks.MockXayaClient, index *mocks.MockSubgraphClient) {
	index.EXPECT().IndexedBlock(gomock.Any()).Return(uint64(100), nil).AnyTimes()
	chain.EXPECT().BlockNumber(gomock.Any()).Return(uint64(105), nil).AnyTimes()
}

func TestResolver_Profile_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)
	expectFreshIndex(chain, index)

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	registered := time.Unix(1700000000, 0).UTC()
	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).Return(ownerAddr, nil)
	index.EXPECT().Registration(gomock.Any(), tokenID).Return(&domain.Registration{
		TokenID: tokenID.String(),
		Tx:      domain.TxRef{Hash: "0xabc", Height: 100, Timestamp: registered},
	}, nil)
	index.EXPECT().MovesForName(gomock.Any(), tokenID, subgraph.TimeWindow{}, "").Return(&domain.MovesPage{
		Moves: []domain.Move{{
			Tx:      domain.TxRef{Hash: "0xdef", Height: 101, Timestamp: registered},
			Games:   []string{"mygame"},
			Payload: `{"mygame":{"m":"jump"}}`,
		}},
	}, nil)

	chain.EXPECT().GetApproved(gomock.Any(), tokenID).Return(domain.ZeroAddress, nil)
	chain.EXPECT().BalanceOf(gomock.Any(), ownerAddr).Return(big.NewInt(1500000000), nil)
	chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, delegationAddr).Return(true, nil)
	chain.EXPECT().DefinedKeys(gomock.Any(), tokenID, ownerAddr, gomock.Nil()).
		Return([]string{}, []string{}, []string{}, nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Profile(context.Background(), "p", "domob")

	require.Equal(t, domain.StatusComplete, env.Status)
	require.Empty(t, env.Errors)

	profile, ok := env.Data.(domain.Profile)
	require.True(t, ok)
	assert.Equal(t, "p", profile.Identity.Namespace)
	assert.Equal(t, "domob", profile.Identity.Name)
	assert.Equal(t, tokenID.String(), profile.Identity.TokenID)
	assert.Equal(t, ownerAddr, profile.Owner)
	assert.False(t, profile.Burned)
	assert.Nil(t, profile.Approved)
	require.NotNil(t, profile.Registration)
	assert.Equal(t, uint64(100), profile.Registration.Height)
	require.Len(t, profile.Moves, 1)
	assert.Equal(t, []string{"mygame"}, profile.Moves[0].Games)
	require.NotNil(t, profile.Balance)
	assert.Equal(t, "1500000000", profile.Balance.Raw)
	assert.Equal(t, "15", profile.Balance.Human)
	require.NotNil(t, profile.Delegation)
	assert.True(t, profile.Delegation.Approved)
}

func TestResolver_Profile_PartialOnIndexOutage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)
	chain.EXPECT().BlockNumber(gomock.Any()).Return(uint64(105), nil).AnyTimes()

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	indexDown := domain.NewFailure(domain.FailureIndexUnavailable, "connection refused")
	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).Return(ownerAddr, nil)
	index.EXPECT().Registration(gomock.Any(), tokenID).Return(nil, indexDown)
	index.EXPECT().MovesForName(gomock.Any(), tokenID, subgraph.TimeWindow{}, "").Return(nil, indexDown)
	index.EXPECT().IndexedBlock(gomock.Any()).Return(uint64(0), indexDown).AnyTimes()

	chain.EXPECT().GetApproved(gomock.Any(), tokenID).Return(domain.ZeroAddress, nil)
	chain.EXPECT().BalanceOf(gomock.Any(), ownerAddr).Return(big.NewInt(0), nil)
	chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, delegationAddr).Return(true, nil)
	chain.EXPECT().DefinedKeys(gomock.Any(), tokenID, ownerAddr, gomock.Nil()).
		Return([]string{}, []string{}, []string{}, nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Profile(context.Background(), "p", "domob")

	require.Equal(t, domain.StatusPartial, env.Status)
	require.Len(t, env.Errors, 2)
	fields := []string{env.Errors[0].Field, env.Errors[1].Field}
	assert.Contains(t, fields, "registration")
	assert.Contains(t, fields, "moves")
	for _, e := range env.Errors {
		assert.Equal(t, domain.FailureIndexUnavailable, e.Kind)
	}

	// The chain-backed fields are still present.
	profile, ok := env.Data.(domain.Profile)
	require.True(t, ok)
	assert.Equal(t, ownerAddr, profile.Owner)
	assert.Nil(t, profile.Registration)
	require.NotNil(t, profile.Balance)
	assert.Equal(t, "0", profile.Balance.Human)
}

func TestResolver_Profile_MalformedNameShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: a name that fails validation must not reach either
	// backend.
	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Profile(context.Background(), "P!", "domob")

	require.Equal(t, domain.StatusFailed, env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, domain.FailureQueryRejected, env.Errors[0].Kind)
	assert.Nil(t, env.Data)
}

func TestResolver_Profile_OwnerTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)
	expectFreshIndex(chain, index)

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).DoAndReturn(
		func(ctx context.Context, _ *big.Int) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
	index.EXPECT().Registration(gomock.Any(), tokenID).Return(&domain.Registration{
		TokenID: tokenID.String(),
		Tx:      domain.TxRef{Hash: "0xabc", Height: 100},
	}, nil)
	index.EXPECT().MovesForName(gomock.Any(), tokenID, subgraph.TimeWindow{}, "").
		Return(&domain.MovesPage{Moves: []domain.Move{}}, nil)

	cfg := testConfig()
	cfg.SubQueryTimeout = 50 * time.Millisecond
	r := newResolver(t, cfg, chain, index)
	env := r.Profile(context.Background(), "p", "domob")

	require.Equal(t, domain.StatusPartial, env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "owner", env.Errors[0].Field)
	assert.Equal(t, domain.FailureTimeout, env.Errors[0].Kind)

	profile, ok := env.Data.(domain.Profile)
	require.True(t, ok)
	assert.Empty(t, profile.Owner)
	require.NotNil(t, profile.Registration)
}

func TestResolver_Profile_BurnedName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectFreshIndex(chain, index)

	tokenID, err := codec.TokenIDForName("p", "gone")
	require.NoError(t, err)

	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).
		Return("", domain.NewFailure(domain.FailureNotFound, "ownerOf reverted"))
	index.EXPECT().Registration(gomock.Any(), tokenID).Return(&domain.Registration{
		TokenID: tokenID.String(),
		Tx:      domain.TxRef{Hash: "0xabc", Height: 42},
	}, nil)
	index.EXPECT().MovesForName(gomock.Any(), tokenID, subgraph.TimeWindow{}, "").
		Return(&domain.MovesPage{Moves: []domain.Move{}}, nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Profile(context.Background(), "p", "gone")

	// Registered once but without a current owner: reported as burned, not
	// as a missing field.
	require.Equal(t, domain.StatusComplete, env.Status)
	require.Empty(t, env.Errors)

	profile, ok := env.Data.(domain.Profile)
	require.True(t, ok)
	assert.True(t, profile.Burned)
	assert.Empty(t, profile.Owner)
	require.NotNil(t, profile.Registration)
}

func TestResolver_Profile_NotRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectFreshIndex(chain, index)

	tokenID, err := codec.TokenIDForName("p", "nobody")
	require.NoError(t, err)

	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).
		Return("", domain.NewFailure(domain.FailureNotFound, "ownerOf reverted"))
	index.EXPECT().Registration(gomock.Any(), tokenID).Return(nil, nil)
	index.EXPECT().MovesForName(gomock.Any(), tokenID, subgraph.TimeWindow{}, "").
		Return(&domain.MovesPage{Moves: []domain.Move{}}, nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Profile(context.Background(), "p", "nobody")

	require.Equal(t, domain.StatusFailed, env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, domain.FailureNotFound, env.Errors[0].Kind)
	assert.Nil(t, env.Data)
}

func TestResolver_Profile_MergeOrderIndependent(t *testing.T) {
	// The merged envelope must not depend on which backend answers first.
	// Run the same profile twice with the injected delays swapped and
	// require identical results, including the order of the field errors.
	run := func(t *testing.T, chainDelay, indexDelay time.Duration) domain.Envelope {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		chain := mocks.NewMockXayaClient(ctrl)
		index := mocks.NewMockSubgraphClient(ctrl)
		expectContracts(chain)
		expectFreshIndex(chain, index)

		tokenID, err := codec.TokenIDForName("p", "domob")
		require.NoError(t, err)

		registered := time.Unix(1700000000, 0).UTC()
		chain.EXPECT().OwnerOf(gomock.Any(), tokenID).DoAndReturn(
			func(context.Context, *big.Int) (string, error) {
				time.Sleep(chainDelay)
				return ownerAddr, nil
			})
		index.EXPECT().Registration(gomock.Any(), tokenID).DoAndReturn(
			func(context.Context, *big.Int) (*domain.Registration, error) {
				time.Sleep(indexDelay)
				return &domain.Registration{
					TokenID: tokenID.String(),
					Tx:      domain.TxRef{Hash: "0xabc", Height: 100, Timestamp: registered},
				}, nil
			})
		index.EXPECT().MovesForName(gomock.Any(), tokenID, subgraph.TimeWindow{}, "").DoAndReturn(
			func(context.Context, *big.Int, subgraph.TimeWindow, string) (*domain.MovesPage, error) {
				time.Sleep(indexDelay)
				return nil, domain.NewFailure(domain.FailureIndexUnavailable, "connection refused")
			})

		chain.EXPECT().GetApproved(gomock.Any(), tokenID).Return(domain.ZeroAddress, nil)
		chain.EXPECT().BalanceOf(gomock.Any(), ownerAddr).Return(big.NewInt(1500000000), nil)
		chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, delegationAddr).Return(true, nil)
		chain.EXPECT().DefinedKeys(gomock.Any(), tokenID, ownerAddr, gomock.Nil()).
			Return([]string{}, []string{}, []string{}, nil)

		r := newResolver(t, testConfig(), chain, index)
		return r.Profile(context.Background(), "p", "domob")
	}

	chainSlow := run(t, 50*time.Millisecond, time.Millisecond)
	indexSlow := run(t, time.Millisecond, 50*time.Millisecond)

	require.Equal(t, domain.StatusPartial, chainSlow.Status)
	require.Len(t, chainSlow.Errors, 1)
	assert.Equal(t, "moves", chainSlow.Errors[0].Field)

	assert.Equal(t, chainSlow, indexSlow)
}

func TestResolver_Balance_ZeroIsComplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)

	chain.EXPECT().BalanceOf(gomock.Any(), subjectAddr).Return(big.NewInt(0), nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Balance(context.Background(), subjectAddr)

	require.Equal(t, domain.StatusComplete, env.Status)
	balance, ok := env.Data.(domain.Balance)
	require.True(t, ok)
	assert.Equal(t, "0", balance.Raw)
	assert.Equal(t, "0", balance.Human)
	assert.Equal(t, uint8(8), balance.Decimals)
	assert.Equal(t, wchiAddr, balance.Token)
}

func TestResolver_Balance_RejectsInvalidAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Balance(context.Background(), "not-an-address")

	require.Equal(t, domain.StatusFailed, env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, domain.FailureQueryRejected, env.Errors[0].Kind)
}

func TestResolver_Owner_RetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	gomock.InOrder(
		chain.EXPECT().OwnerOf(gomock.Any(), tokenID).
			Return("", domain.NewFailure(domain.FailureNodeUnavailable, "connection reset")),
		chain.EXPECT().OwnerOf(gomock.Any(), tokenID).Return(ownerAddr, nil),
	)
	chain.EXPECT().GetApproved(gomock.Any(), tokenID).Return(domain.ZeroAddress, nil)

	cfg := testConfig()
	cfg.RetryAttempts = 1
	r := newResolver(t, cfg, chain, index)
	env := r.Owner(context.Background(), "p", "domob")

	require.Equal(t, domain.StatusComplete, env.Status)
	record, ok := env.Data.(domain.OwnershipRecord)
	require.True(t, ok)
	assert.Equal(t, ownerAddr, record.Owner)
	assert.Nil(t, record.Approved)
}

func TestResolver_Owner_DoesNotRetryNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)

	tokenID, err := codec.TokenIDForName("p", "nobody")
	require.NoError(t, err)

	// A generous retry budget must not be spent on a definitive answer.
	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).
		Return("", domain.NewFailure(domain.FailureNotFound, "ownerOf reverted")).
		Times(1)

	cfg := testConfig()
	cfg.RetryAttempts = 3
	r := newResolver(t, cfg, chain, index)
	env := r.Owner(context.Background(), "p", "nobody")

	require.Equal(t, domain.StatusFailed, env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, domain.FailureNotFound, env.Errors[0].Kind)
}

func TestResolver_TokenIDForName_PureDerivation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Token id derivation is keccak arithmetic; no backend involved.
	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)

	r := newResolver(t, testConfig(), chain, index)
	env := r.TokenIDForName(context.Background(), "p", "domob")

	require.Equal(t, domain.StatusComplete, env.Status)
	identity, ok := env.Data.(domain.Identity)
	require.True(t, ok)

	want, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)
	assert.Equal(t, want.String(), identity.TokenID)
}

func TestResolver_NamesOwnedBy_AttachesStalenessWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)

	index.EXPECT().IndexedBlock(gomock.Any()).Return(uint64(100), nil)
	chain.EXPECT().BlockNumber(gomock.Any()).Return(uint64(200), nil)
	index.EXPECT().NamesOwnedBy(gomock.Any(), ownerAddr, "").Return(&domain.NamesPage{
		Names: []domain.Identity{{Namespace: "p", Name: "domob"}},
	}, nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.NamesOwnedBy(context.Background(), ownerAddr, "")

	require.Equal(t, domain.StatusComplete, env.Status)
	require.Len(t, env.Warnings, 1)
	assert.Equal(t, domain.WarningStaleIndex, env.Warnings[0].Kind)

	page, ok := env.Data.(*domain.NamesPage)
	require.True(t, ok)
	require.Len(t, page.Names, 1)
}

func TestResolver_Registration_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectFreshIndex(chain, index)

	tokenID, err := codec.TokenIDForName("p", "nobody")
	require.NoError(t, err)

	index.EXPECT().Registration(gomock.Any(), tokenID).Return(nil, nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.Registration(context.Background(), "p", "nobody")

	require.Equal(t, domain.StatusFailed, env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, domain.FailureNotFound, env.Errors[0].Kind)
}

func TestResolver_MovePermission_Owner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).Return(subjectAddr, nil)

	r := newResolver(t, testConfig(), chain, index)
	move := json.RawMessage(`{"mygame": {"m": "jump"}}`)
	env := r.MovePermission(context.Background(), "p", "domob", subjectAddr, move)

	require.Equal(t, domain.StatusComplete, env.Status)
	perm, ok := env.Data.(domain.MovePermission)
	require.True(t, ok)
	assert.True(t, perm.Allowed)
	assert.False(t, perm.Delegated)
	assert.Equal(t, `{"mygame":{"m":"jump"}}`, perm.Move)
}

func TestResolver_MovePermission_Delegated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	now := time.Now().Unix()
	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).Return(ownerAddr, nil)
	chain.EXPECT().GetApproved(gomock.Any(), tokenID).Return(domain.ZeroAddress, nil)
	chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, subjectAddr).Return(false, nil)
	chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, delegationAddr).Return(true, nil)
	chain.EXPECT().HasAccess(gomock.Any(), "p", "domob", []string{"g", "mygame"}, subjectAddr, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ []string, _ string, at *big.Int) (bool, error) {
			// Evaluated slightly in the future so the answer holds while the
			// transaction is in flight.
			assert.GreaterOrEqual(t, at.Int64(), now+60)
			return true, nil
		})

	r := newResolver(t, testConfig(), chain, index)
	move := json.RawMessage(`{"g": {"mygame": {"m": "jump"}}}`)
	env := r.MovePermission(context.Background(), "p", "domob", subjectAddr, move)

	require.Equal(t, domain.StatusComplete, env.Status)
	perm, ok := env.Data.(domain.MovePermission)
	require.True(t, ok)
	assert.True(t, perm.Allowed)
	assert.True(t, perm.Delegated)
	assert.Equal(t, []string{"g", "mygame"}, perm.Path)
	assert.Equal(t, `{"m":"jump"}`, perm.Move)
}

func TestResolver_MovePermission_DelegationNotApproved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).Return(ownerAddr, nil)
	chain.EXPECT().GetApproved(gomock.Any(), tokenID).Return(domain.ZeroAddress, nil).Times(2)
	chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, subjectAddr).Return(false, nil)
	chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, delegationAddr).Return(false, nil)

	r := newResolver(t, testConfig(), chain, index)
	move := json.RawMessage(`{"g": {"mygame": {"m": "jump"}}}`)
	env := r.MovePermission(context.Background(), "p", "domob", subjectAddr, move)

	require.Equal(t, domain.StatusComplete, env.Status)
	perm, ok := env.Data.(domain.MovePermission)
	require.True(t, ok)
	assert.False(t, perm.Allowed)
	assert.NotEmpty(t, perm.Reason)
}

func TestResolver_DelegationPermissions_Tree(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)

	tokenID, err := codec.TokenIDForName("p", "domob")
	require.NoError(t, err)

	never := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	chain.EXPECT().OwnerOf(gomock.Any(), tokenID).Return(ownerAddr, nil)
	chain.EXPECT().IsApprovedForAll(gomock.Any(), ownerAddr, delegationAddr).Return(true, nil)
	chain.EXPECT().DefinedKeys(gomock.Any(), tokenID, ownerAddr, gomock.Nil()).
		Return([]string{"g"}, []string{}, []string{}, nil)
	chain.EXPECT().DefinedKeys(gomock.Any(), tokenID, ownerAddr, []string{"g"}).
		Return([]string{}, []string{subjectAddr}, []string{}, nil)
	chain.EXPECT().Expiration(gomock.Any(), tokenID, ownerAddr, []string{"g"}, subjectAddr, false).
		Return(never, nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.DelegationPermissions(context.Background(), "p", "domob", "")

	require.Equal(t, domain.StatusComplete, env.Status)
	perms, ok := env.Data.(domain.DelegationPermissions)
	require.True(t, ok)
	assert.True(t, perms.Approved)
	assert.Equal(t, ownerAddr, perms.Owner)
	require.Len(t, perms.Root.Children, 1)
	child := perms.Root.Children[0]
	assert.Equal(t, "g", child.Key)
	require.Len(t, child.FullAccess, 1)
	assert.Equal(t, subjectAddr, child.FullAccess[0].Address)
	assert.Equal(t, never.String(), child.FullAccess[0].Expiration)
}

func TestResolver_ChainInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := mocks.NewMockXayaClient(ctrl)
	index := mocks.NewMockSubgraphClient(ctrl)
	expectContracts(chain)

	chain.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(137), nil)

	r := newResolver(t, testConfig(), chain, index)
	env := r.ChainInfo(context.Background())

	require.Equal(t, domain.StatusComplete, env.Status)
	info, ok := env.Data.(domain.ChainInfo)
	require.True(t, ok)
	assert.Equal(t, "137", info.ChainID)
	assert.Equal(t, accountsAddr, info.AccountsContract)
	assert.Equal(t, wchiAddr, info.WCHIContract)
	assert.Equal(t, delegationAddr, info.DelegationContract)
}
