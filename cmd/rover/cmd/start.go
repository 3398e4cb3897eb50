package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/config"
	"github.com/chainrover/rover/ethrover"
	"github.com/chainrover/rover/liskrover"
	roverlog "github.com/chainrover/rover/log"
	"github.com/chainrover/rover/rovercontrol"
	"github.com/chainrover/rover/rpcclient"
	"github.com/chainrover/rover/syncer"
	"github.com/chainrover/rover/unified"
	"github.com/spf13/cobra"
)

var roverConfigFile *string

func loadRoverConfig(path string) (*config.Config, error) {
	cfg := new(config.Config)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// startCmd represents the start command.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start a chain rover",
	Long: `usage example:
		rover start -c cmd/rover.toml
		start a rover.`,

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("start called")

		cfg, err := loadRoverConfig(*roverConfigFile)
		if err != nil {
			fmt.Println(err)
			return
		}

		if err := runRover(cfg); err != nil {
			fmt.Println(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	roverConfigFile = startCmd.Flags().StringP("config", "c", "", "rover config file (required)")
	startCmd.MarkFlagRequired("config")
}

func runRover(cfg *config.Config) error {
	roverlog.IsDebug = cfg.Log.IsDebug

	ctx := context.Background()

	var client *rpcclient.Client
	if !cfg.IsStandalone {
		c, err := rpcclient.Dial(ctx, cfg.ParentRPCAddr, cfg.Chain)
		if err != nil {
			return err
		}
		client = c
		defer c.Close()
	}

	planner := syncer.NewPlanner(cfg.MaxBatch(), cfg.SecondsPerBlock(), cfg.ResyncPeriodSecs)

	switch cfg.Chain {
	case chain.TagEthereum:
		return runEthereumRover(ctx, cfg, client, planner)
	case chain.TagLisk:
		return runLiskRover(ctx, cfg, client, planner)
	default:
		return fmt.Errorf("unknown chain tag %q", cfg.Chain)
	}
}

// settlementOf returns client as a unified.SettlementChecker, or an
// explicit nil interface when client is nil - assigning a nil *Client
// straight into the interface field would leave it non-nil and panic on
// the first settlement lookup in standalone mode.
func settlementOf(client *rpcclient.Client) unified.SettlementChecker {
	if client == nil {
		return nil
	}
	return client
}

func runEthereumRover(ctx context.Context, cfg *config.Config, client *rpcclient.Client, planner *syncer.Planner) error {
	privateKey, err := cfg.Ethereum.PrivateKey()
	if err != nil {
		return err
	}

	net := ethrover.ResolveNetwork(cfg.Network)
	bootURLs := append(append([]string{}, net.BootNodes...), cfg.Ethereum.AltBootNodes...)
	bootNodes := ethrover.ParseBootNodes(bootURLs)

	marker := &unified.Marker{
		Chain:           chain.TagEthereum,
		DesignatedKey:   cfg.DesignatedAddress(),
		Settlement:      settlementOf(client),
		IsValueTransfer: ethrover.IsValueTransfer,
	}

	sink := &rovercontrol.EthereumSink{Marker: marker}

	var loop *rovercontrol.Loop
	pool, err := ethrover.NewPool(ethrover.Config{
		PrivateKey:     privateKey,
		MaximumPeers:   cfg.Ethereum.MaximumPeers,
		BootstrapNodes: bootNodes,
		NetworkID:      net.NetworkID,
		GenesisHash:    net.GenesisHash,
	}, sink)
	if err != nil {
		return err
	}

	tracker := syncer.NewTracker(pool, roverlog.GetLogger("ethrover", true), func(ok bool) {
		loop.ReportSyncStatus(ctx, ok)
	})
	pool.SetTracker(tracker)

	loop = rovercontrol.NewLoop(chain.TagEthereum, client, planner, tracker, cfg.MaxBatch(), cfg.IsStandalone)
	sink.Loop = loop
	sink.Tracker = tracker

	if err := pool.Start(); err != nil {
		return err
	}
	defer pool.Stop()

	go loop.RunBackoffTicker(ctx, chain.WatchdogInterval)

	return loop.Run(ctx, func() uint64 { return pool.BestSeenHeight() })
}

func runLiskRover(ctx context.Context, cfg *config.Config, client *rpcclient.Client, planner *syncer.Planner) error {
	marker := &unified.Marker{
		Chain:           chain.TagLisk,
		DesignatedKey:   cfg.DesignatedAddress(),
		Settlement:      settlementOf(client),
		IsValueTransfer: liskrover.IsValueTransfer,
	}

	sink := &rovercontrol.LiskSink{Marker: marker}

	var loop *rovercontrol.Loop
	driver := liskrover.NewDriver(liskrover.Config{
		Nodes:          cfg.Lisk.Nodes,
		RandomizeNodes: cfg.Lisk.RandomizeNodes,
		BannedPeers:    cfg.Lisk.BannedPeers,
	}, cfg.SecondsPerBlock(), sink)

	tracker := syncer.NewTracker(driver, roverlog.GetLogger("liskrover", true), func(ok bool) {
		loop.ReportSyncStatus(ctx, ok)
	})
	driver.SetTracker(tracker)

	loop = rovercontrol.NewLoop(chain.TagLisk, client, planner, tracker, cfg.MaxBatch(), cfg.IsStandalone)
	sink.Loop = loop

	go driver.PollLive(ctx)
	go loop.RunBackoffTicker(ctx, time.Duration(cfg.SecondsPerBlock())*time.Second)

	return loop.Run(ctx, func() uint64 { return driver.BestSeen().Height() })
}
