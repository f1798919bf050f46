// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nftstaking/api"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/genesis"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.New("pkg", "stakingd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakingd",
		Usage:     "Ledger of NFT-collateralized tiered staking pools",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			skipLogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			disableNTPFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "dev",
				Usage: "Ledger with funded dev accounts for test & dev",
				Flags: []cli.Flag{
					dataDirFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiEventsLimitFlag,
					enableAPILogsFlag,
					persistFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: devAction,
			},
			{
				Name:   "dump-genesis",
				Usage:  "Print the dev genesis as YAML, as a template for --genesis",
				Action: dumpGenesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	cfg, err := loadGenesisConfig(ctx)
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	var logDB *logdb.LogDB
	if !ctx.Bool(skipLogsFlag.Name) {
		if logDB, err = openLogDB(dataDir); err != nil {
			return err
		}
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	st, err := initLedger(cfg, mainDB, logDB, stateCacheSize(ctx))
	if err != nil {
		return err
	}
	rt := runtime.New(st, logDB, nil)

	metricsURL, stopMetrics, err := startMetricsServer(ctx)
	if err != nil {
		return err
	}
	defer stopMetrics()

	apiURL, stopAPI, err := startAPIServer(ctx, api.New(rt, logDB, cry.NewSigning(), apiOptions(ctx)))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(rt, dataDir, apiURL, metricsURL)

	if !ctx.Bool(disableNTPFlag.Name) {
		go watchClockOffset(exitSignal)
	}

	<-exitSignal.Done()
	return nil
}

func devAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}

	var (
		mainDB  *lvldb.LevelDB
		logDB   *logdb.LogDB
		dataDir string
		err     error
	)
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
		if mainDB, err = openMainDB(ctx, dataDir); err != nil {
			return err
		}
		if logDB, err = openLogDB(dataDir); err != nil {
			return err
		}
	} else {
		dataDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if logDB, err = logdb.NewMem(); err != nil {
			return err
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	st, err := initLedger(genesis.DevConfig(), mainDB, logDB, stateCacheSize(ctx))
	if err != nil {
		return err
	}
	rt := runtime.New(st, logDB, nil)

	metricsURL, stopMetrics, err := startMetricsServer(ctx)
	if err != nil {
		return err
	}
	defer stopMetrics()

	apiURL, stopAPI, err := startAPIServer(ctx, api.New(rt, logDB, cry.NewSigning(), apiOptions(ctx)))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(rt, dataDir, apiURL, metricsURL)
	printDevAccounts()

	<-exitSignal.Done()
	return nil
}

func dumpGenesisAction(_ *cli.Context) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(genesis.DevConfig())
}
