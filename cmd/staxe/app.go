package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/config"
	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/identity"
	"github.com/staxeio/staxe-go/metrics"
	"github.com/staxeio/staxe-go/production"
	"github.com/staxeio/staxe-go/storage"
)

type options struct {
	DataDir  string `long:"datadir" env:"STAXE_DATADIR" description:"Data directory holding config and database"`
	Network  string `long:"network" env:"STAXE_NETWORK" description:"Address encoding: mainnet, testnet or regtest"`
	LogLevel string `long:"loglevel" env:"STAXE_LOGLEVEL" description:"Log level: debug, info, warn or error"`
	LogFile  string `long:"logfile" env:"STAXE_LOGFILE" description:"Log file, stderr when empty"`
}

// app carries what every command needs after flag parsing.
type app struct {
	opts *options
	out  io.Writer
}

func run(args []string, out io.Writer) error {
	a := &app{opts: &options{}, out: out}
	parser := flags.NewParser(a.opts, flags.Default)
	commands := []struct {
		name, short string
		data        interface{}
	}{
		{"init", "Write a default config file", &initCommand{app: a}},
		{"list", "List stored productions", &listCommand{app: a}},
		{"production", "Show one production", &productionCommand{app: a}},
		{"owner", "Show a holder's position in a production", &ownerCommand{app: a}},
		{"price", "Quote shares of a production", &priceCommand{app: a}},
		{"serve", "Serve production metrics over HTTP", &serveCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, "", c.data); err != nil {
			return err
		}
	}
	_, err := parser.ParseArgs(args)
	return err
}

// settings merges the config file with flags; flags win.
func (a *app) settings() (config.Config, error) {
	dataDir := a.opts.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return cfg, err
	}
	cfg.DataDir = dataDir
	if a.opts.Network != "" {
		cfg.Network = a.opts.Network
	}
	if a.opts.LogLevel != "" {
		cfg.LogLevel = a.opts.LogLevel
	}
	if a.opts.LogFile != "" {
		cfg.LogFile = a.opts.LogFile
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	account.SetMainnet(cfg.Network == "mainnet")
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.LogFile != "" {
		zc.OutputPaths = []string{cfg.LogFile}
		zc.ErrorOutputPaths = []string{cfg.LogFile}
	}
	return zc.Build()
}

// session is an engine restored read-only from the database.
type session struct {
	cfg    config.Config
	logger *zap.Logger
	store  *storage.BoltStore
	engine *production.Engine
}

func (a *app) open(m production.Metrics) (*session, error) {
	cfg, err := a.settings()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.OpenBoltStore(config.DBPath(cfg.DataDir), storage.CompressGZIP)
	if err != nil {
		return nil, err
	}
	recs, err := store.List()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	// Balances live with the currency issuers, so the inspector trusts a
	// placeholder ledger per currency and only checks internal ledgers.
	currencies := currency.NewRegistry(account.Zero, nil)
	for _, rec := range recs {
		if !currencies.IsTrusted(rec.Production.Currency) {
			if err := currencies.Trust(account.Zero, currency.NewLedger(rec.Production.Currency, "")); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
	}
	engine, err := production.New(production.Options{
		Roles:      identity.NewMembers(account.Zero, nil),
		Currencies: currencies,
		Logger:     logger,
		Metrics:    m,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := engine.Restore(recs); err != nil {
		_ = store.Close()
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, store: store, engine: engine}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close store", zap.Error(err))
	}
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type initCommand struct {
	app   *app
	Force bool `long:"force" description:"Overwrite an existing config file"`
}

func (c *initCommand) Execute([]string) error {
	cfg := config.DefaultConfig()
	if c.app.opts.DataDir != "" {
		cfg.DataDir = c.app.opts.DataDir
	}
	if c.app.opts.Network != "" {
		cfg.Network = c.app.opts.Network
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	path := config.ConfigPath(cfg.DataDir)
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s exists, use --force to overwrite", path)
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.app.out, path)
	return err
}

type listCommand struct {
	app   *app
	State string `long:"state" description:"Only show productions in this state (e.g. open, closed)"`
}

func (c *listCommand) Execute([]string) error {
	s, err := c.app.open(nil)
	if err != nil {
		return err
	}
	defer s.close()
	views := s.engine.Productions()
	if c.State != "" {
		kept := views[:0]
		for _, v := range views {
			if v.State.String() == c.State {
				kept = append(kept, v)
			}
		}
		views = kept
	}
	return c.app.print(views)
}

type productionCommand struct {
	app  *app
	Args struct {
		ID uint64 `positional-arg-name:"id"`
	} `positional-args:"yes" required:"yes"`
}

func (c *productionCommand) Execute([]string) error {
	s, err := c.app.open(nil)
	if err != nil {
		return err
	}
	defer s.close()
	v := s.engine.GetProduction(c.Args.ID)
	if v.State == production.StateEmpty {
		return fmt.Errorf("%w: %d", production.ErrNotExist, c.Args.ID)
	}
	return c.app.print(v)
}

type ownerCommand struct {
	app  *app
	Args struct {
		ID     uint64 `positional-arg-name:"id"`
		Holder string `positional-arg-name:"address"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ownerCommand) Execute([]string) error {
	holder, err := account.Parse(c.Args.Holder)
	if err != nil {
		return err
	}
	s, err := c.app.open(nil)
	if err != nil {
		return err
	}
	defer s.close()
	data, err := s.engine.GetTokenOwnerData(c.Args.ID, holder)
	if err != nil {
		return err
	}
	return c.app.print(data)
}

type priceCommand struct {
	app  *app
	Args struct {
		ID     uint64 `positional-arg-name:"id"`
		Shares uint64 `positional-arg-name:"shares"`
	} `positional-args:"yes" required:"yes"`
}

func (c *priceCommand) Execute([]string) error {
	s, err := c.app.open(nil)
	if err != nil {
		return err
	}
	defer s.close()
	cur, price, err := s.engine.GetTokenPrice(c.Args.ID, c.Args.Shares)
	if err != nil {
		return err
	}
	return c.app.print(struct {
		Currency account.Address `json:"currency"`
		Price    string          `json:"price"`
	}{cur, price.String()})
}

type serveCommand struct {
	app *app
}

func (c *serveCommand) Execute([]string) error {
	cfg, err := c.app.settings()
	if err != nil {
		return err
	}
	if cfg.ListenAddr == "" {
		return errors.New("metrics listen address is empty")
	}
	s, err := c.app.open(metrics.NewEngine(cfg.Network))
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("serving metrics", zap.String("addr", cfg.ListenAddr),
		zap.Int("productions", len(s.engine.Productions())))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
