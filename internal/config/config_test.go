package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaya/xaya-mcp-server/internal/config"
)

const delegationContract = "0x3333333333333333333333333333333333333333"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XAYA_MCP_CHAIN_RPC_URL", "https://polygon-rpc.example")
	t.Setenv("XAYA_MCP_CHAIN_DELEGATION_CONTRACT", delegationContract)
	t.Setenv("XAYA_MCP_INDEX_URL", "https://subgraph.example/xaya")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://polygon-rpc.example", cfg.Chain.RPCURL)
	assert.Equal(t, delegationContract, cfg.Chain.DelegationContract)
	assert.Equal(t, "https://subgraph.example/xaya", cfg.Index.URL)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8000, cfg.Server.MCPPort)
	assert.Equal(t, 10*time.Second, cfg.Chain.CallTimeout)
	assert.Equal(t, 10, cfg.Index.PageSize)
	assert.Equal(t, uint64(30), cfg.Index.StalenessThreshold)
	assert.Equal(t, 10*time.Second, cfg.Resolver.SubQueryTimeout)
	assert.Equal(t, 1, cfg.Resolver.RetryAttempts)
	assert.Equal(t, 64, cfg.Resolver.PoolSize)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("XAYA_MCP_SERVER_PORT", "9090")
	t.Setenv("XAYA_MCP_RESOLVER_SUBQUERY_TIMEOUT", "3s")
	t.Setenv("XAYA_MCP_INDEX_PAGE_SIZE", "25")

	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Resolver.SubQueryTimeout)
	assert.Equal(t, 25, cfg.Index.PageSize)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Chain: config.ChainConfig{
				RPCURL:             "https://polygon-rpc.example",
				DelegationContract: delegationContract,
			},
			Index: config.IndexConfig{
				URL:      "https://subgraph.example/xaya",
				PageSize: 10,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *config.Config) {}, wantErr: false},
		{name: "missing rpc url", mutate: func(c *config.Config) { c.Chain.RPCURL = "" }, wantErr: true},
		{name: "missing delegation contract", mutate: func(c *config.Config) { c.Chain.DelegationContract = "" }, wantErr: true},
		{name: "malformed delegation contract", mutate: func(c *config.Config) { c.Chain.DelegationContract = "0x12" }, wantErr: true},
		{name: "missing index url", mutate: func(c *config.Config) { c.Index.URL = "" }, wantErr: true},
		{name: "non-positive page size", mutate: func(c *config.Config) { c.Index.PageSize = 0 }, wantErr: true},
		{name: "negative retry attempts", mutate: func(c *config.Config) { c.Resolver.RetryAttempts = -1 }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
