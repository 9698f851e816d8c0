package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/game/dice"
	"github.com/cory-johannsen/rpgstat/internal/scripting"
	"github.com/cory-johannsen/rpgstat/internal/server"
)

var runScenarioPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulated host clock until interrupted",
	Long: `Start the simulated host tick loop. Each tick interval advances the host by
ticks_per_step ticks, running deferred balancing and modifier re-polls. An
optional scenario seeds the world first. Settings and progress are saved on
shutdown.`,
	RunE: runHost,
}

func init() {
	runCmd.Flags().StringVar(&runScenarioPath, "scenario", "", "Lua scenario that seeds the world before the clock starts")
}

func runHost(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	if runScenarioPath != "" {
		mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), e.logger), e.logger)
		err := e.host.RunScenario(mgr, runScenarioPath)
		mgr.Close()
		if err != nil {
			return err
		}
	}

	ticks := server.NewTickService(e.cfg.SimHost.TickInterval)
	ticks.Register("simhost", e.host.Step)
	ticks.Register("messages", func() {
		for _, msg := range e.host.Messages() {
			e.logger.Info("host message", zap.String("message", msg))
		}
	})

	lc := server.NewLifecycle(e.logger)
	lc.Add("ticks", ticks)
	runErr := lc.Run(cmd.Context())

	e.logger.Info("final balance", zap.Stringer("report", e.host.Report()), zap.Int64("tick", e.host.Tick()))
	// The command context is typically cancelled by now.
	if err := e.save(context.Background()); err != nil {
		return err
	}
	return runErr
}
