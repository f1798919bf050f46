// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaking/api"
	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/genesis"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/metrics"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

// lock durations are counted in seconds, larger offsets shift them noticeably
const maxClockOffset = 5 * time.Second

// storage slots cached in memory per megabyte of --cache
const slotsPerMB = 1024

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d, must be less than or equal to %d", val, math.MaxInt)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) error {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}

	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(handler)
	return nil
}

func loadGenesisConfig(ctx *cli.Context) (*genesis.Config, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		logger.Warn("no genesis file given, using the dev genesis")
		return genesis.DevConfig(), nil
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "genesis file [%v]", path)
	}
	return cfg, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(ctx *cli.Context, dataDir string) (*lvldb.LevelDB, error) {
	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse cache flag")
	}
	logger.Debug("cache size(MB)", "size", cacheMB)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", dir)
	}
	return db, nil
}

func openLogDB(dataDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", dir)
	}
	return db, nil
}

// stateCacheSize returns the number of storage slots the ledger state keeps in memory.
func stateCacheSize(ctx *cli.Context) int {
	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil || cacheMB == 0 || cacheMB > math.MaxInt/slotsPerMB {
		return state.DefaultCacheSize
	}
	return cacheMB * slotsPerMB
}

// initLedger opens the ledger in mainDB, building it from cfg on first run.
func initLedger(cfg *genesis.Config, mainDB *lvldb.LevelDB, logDB *logdb.LogDB, cacheSize int) (*state.State, error) {
	st := state.NewWithCacheSize(mainDB, cacheSize)

	launchTime, launched, err := genesis.LaunchTime(st)
	if err != nil {
		return nil, errors.Wrap(err, "read launch time")
	}
	if launched {
		if launchTime != cfg.LaunchTime {
			logger.Warn("genesis differs from the stored ledger, keeping the stored one",
				"stored", launchTime, "given", cfg.LaunchTime)
		}
		logger.Info("ledger loaded", "launchTime", launchTime)
		return st, nil
	}

	builder, err := genesis.NewBuilder(cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "genesis")
	}
	events, err := builder.Build(st, logDB)
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	logger.Info("ledger created", "launchTime", cfg.LaunchTime, "events", len(events))
	return st, nil
}

func apiOptions(ctx *cli.Context) api.Options {
	return api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
	}
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	timeout := time.Duration(ctx.Uint64(apiTimeoutFlag.Name)) * time.Millisecond
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, `{"error":"request timeout"}`)
	}
	return api.StartServer(ctx.String(apiAddrFlag.Name), handler, timeout)
}

// startMetricsServer serves the collected metrics on their own address when enabled.
func startMetricsServer(ctx *cli.Context) (string, func(), error) {
	if !ctx.Bool(enableMetricsFlag.Name) {
		return "", func() {}, nil
	}
	metrics.InitializePrometheusMetrics()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	url, stop, err := api.StartServer(ctx.String(metricsAddrFlag.Name), mux, 0)
	if err != nil {
		return "", nil, errors.WithMessage(err, "metrics server")
	}
	return url + "/metrics", func() { logger.Info("stopping metrics server..."); stop() }, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
}

func watchClockOffset(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	checkClockOffset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkClockOffset()
		}
	}
}

func printStartupMessage(rt *runtime.Runtime, dataDir, apiURL, metricsURL string) {
	var (
		poolCount  uint64
		signer     thor.Address
		launchTime uint64
	)
	err := rt.View(func(uint64) error {
		engine := builtin.Staking.WithState(rt.State(), cry.NewSigning())
		var err error
		if poolCount, err = engine.PoolCount(); err != nil {
			return err
		}
		if signer, err = engine.Signer(); err != nil {
			return err
		}
		launchTime, _, err = genesis.LaunchTime(rt.State())
		return err
	})
	if err != nil {
		logger.Warn("failed to read ledger summary", "err", err)
	}

	if metricsURL == "" {
		metricsURL = "disabled"
	}
	fmt.Printf(`Starting %v
    Launched     [ %v ]
    Pools        [ %v ]
    Signer       [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
`,
		fmt.Sprintf("stakingd/v%s/%s-%s/%s", fullVersion(), goruntime.GOOS, goruntime.GOARCH, goruntime.Version()),
		time.Unix(int64(launchTime), 0).UTC(),
		poolCount,
		signer,
		dataDir,
		apiURL,
		metricsURL)
}

func printDevAccounts() {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┬────────┐
│                   Address                  │                             Private Key                            │  Role  │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┼────────┤
│ %v │ %v │ %-6v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┴────────┘`

	info := tableHead
	for i, a := range genesis.DevAccounts() {
		role := "user"
		switch i {
		case 0:
			role = "admin"
		case 1:
			role = "signer"
		}
		info += fmt.Sprintf(tableContent,
			a.Address,
			thor.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
			role,
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch goruntime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.nftstaking")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.nftstaking")
		default:
			return filepath.Join(home, ".org.vechain.nftstaking")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
