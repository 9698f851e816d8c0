package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/dice"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
	"github.com/cory-johannsen/rpgstat/internal/scripting"
	"github.com/cory-johannsen/rpgstat/internal/simhost"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario <path>",
	Short: "Run a Lua scenario once and print the outcome",
	Long: `Load a Lua scenario file or directory into a sandboxed VM, call its run()
hook against a fresh simulated host, then print messages, entity levels and
the balance report.`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), e.logger), e.logger)
	defer mgr.Close()
	if err := e.host.RunScenario(mgr, args[0]); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, msg := range e.host.Messages() {
		fmt.Fprintf(out, "> %s\n", msg)
	}
	printEntities(out, e.host)
	fmt.Fprintln(out, e.host.Report())
	return e.save(ctx)
}

func printEntities(w io.Writer, h *simhost.Host) {
	for _, p := range h.Entities() {
		levels := h.Levels(p.ID)
		parts := make([]string, 0, attribute.Count)
		for _, a := range attribute.All() {
			parts = append(parts, fmt.Sprintf("%s %d", a.Key(), levels[a]))
		}
		fmt.Fprintf(w, "%-12s %-8s %-8s %s\n", displayName(p), p.Kind, p.Relation, strings.Join(parts, "  "))
		if p.Relation != entity.RelationPlayer {
			continue
		}
		for _, a := range attribute.All() {
			fmt.Fprintf(w, "    %s\n", h.Progress(p.ID, a))
		}
	}
}

func displayName(p *entity.Profile) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
