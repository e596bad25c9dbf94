package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/config"
	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/identity"
	"github.com/staxeio/staxe-go/perks"
	"github.com/staxeio/staxe-go/production"
	"github.com/staxeio/staxe-go/storage"
)

var (
	admin     = account.Derive("admin", 1)
	organizer = account.Derive("organizer", 1)
	approver  = account.Derive("approver", 1)
	investor  = account.Derive("investor", 1)
	factory   = account.Derive("factory", 1)
	tokenAddr = account.Derive("token", 1)
)

// seed writes two productions into a database under dataDir: production 1
// is open with 10 shares sold to investor, production 2 awaits approval.
func seed(t *testing.T, dataDir string) {
	t.Helper()
	store, err := storage.OpenBoltStore(config.DBPath(dataDir), storage.CompressGZIP)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	members := identity.NewMembers(admin, nil)
	require.NoError(t, members.GrantRole(admin, identity.RoleOrganizer, organizer))
	require.NoError(t, members.GrantRole(admin, identity.RoleApprover, approver))
	require.NoError(t, members.GrantRole(admin, identity.RoleInvestor, investor))
	token := currency.NewLedger(tokenAddr, "USDT")
	currencies := currency.NewRegistry(admin, nil)
	require.NoError(t, currencies.Trust(admin, token))

	engine, err := production.New(production.Options{
		Admin: admin, Roles: members, Currencies: currencies, Store: store, Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, engine.TrustFactory(admin, factory))
	f := production.NewFactory(factory, engine, 10)
	spec := production.Spec{TotalSupply: 100, TokenPrice: big.NewInt(3), Currency: tokenAddr}
	id, err := f.CreateProduction(organizer, spec)
	require.NoError(t, err)
	_, err = f.CreateProduction(organizer, spec)
	require.NoError(t, err)
	require.NoError(t, engine.Approve(approver, id))

	require.NoError(t, token.Mint(investor, big.NewInt(30)))
	require.NoError(t, token.Approve(investor, engine.Address(), big.NewInt(30)))
	_, err = engine.BuyWithTokens(investor, id, investor, 10, perks.None)
	require.NoError(t, err)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func TestRun_List(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	out, err := runCLI(t, "--datadir", dir, "--loglevel", "error", "list")
	require.NoError(t, err)
	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.EqualValues(t, 10, views[0]["SoldCounter"])

	out, err = runCLI(t, "--datadir", dir, "--loglevel", "error", "list", "--state", "pending_approval")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.EqualValues(t, 2, views[0]["ID"])
}

func TestRun_ProductionOwnerPrice(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	out, err := runCLI(t, "--datadir", dir, "--loglevel", "error", "production", "1")
	require.NoError(t, err)
	var view map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.EqualValues(t, 90, view["Remaining"])

	_, err = runCLI(t, "--datadir", dir, "--loglevel", "error", "production", "9")
	assert.ErrorIs(t, err, production.ErrNotExist)

	out, err = runCLI(t, "--datadir", dir, "--loglevel", "error", "owner", "1", investor.String())
	require.NoError(t, err)
	var owner map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &owner))
	assert.EqualValues(t, 10, owner["Balance"])

	_, err = runCLI(t, "--datadir", dir, "owner", "1", "not-an-address")
	assert.ErrorIs(t, err, account.ErrInvalidAddress)

	out, err = runCLI(t, "--datadir", dir, "--loglevel", "error", "price", "1", "4")
	require.NoError(t, err)
	var quote struct {
		Currency string `json:"currency"`
		Price    string `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.Equal(t, "12", quote.Price)
	assert.Equal(t, tokenAddr.String(), quote.Currency)
}

func TestRun_InitAndConfigOverrides(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "--datadir", dir, "init")
	require.NoError(t, err)
	path := config.ConfigPath(dir)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = runCLI(t, "--datadir", dir, "init")
	assert.Error(t, err)
	_, err = runCLI(t, "--datadir", dir, "init", "--force")
	require.NoError(t, err)

	// A bad level in the file is rejected unless a flag overrides it.
	require.NoError(t, os.WriteFile(path, []byte("loglevel = loud\n"), 0o600))
	_, err = runCLI(t, "--datadir", dir, "list")
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
	out, err = runCLI(t, "--datadir", dir, "--loglevel", "warn", "list")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
	_, err = os.Stat(filepath.Join(dir, "productions.db"))
	assert.NoError(t, err)
}
