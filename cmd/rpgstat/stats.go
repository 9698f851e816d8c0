package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/statmod"
)

var statsAnimal bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "List the attribute-to-statistic coefficients in effect",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsAnimal, "animal", false, "show the animal table instead of the general table")
}

func runStats(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	host := e.host
	engine := host.Modifiers().General()
	if statsAnimal {
		if !host.Modifiers().AnimalEnabled() {
			return fmt.Errorf("animal stats are disabled")
		}
		engine = host.Modifiers().Animal()
	}
	catalog := host.Modifiers().Catalog()
	table := engine.Table()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s table\n", table.Name)
	for _, attr := range attribute.All() {
		fmt.Fprintf(out, "%s (%s)\n", attr.Name(), attr.Key())
		for _, entry := range engine.Coefficients(attr) {
			format := statmod.FormatScalar
			if def, ok := catalog.Get(entry.Stat); ok {
				format = def.Format
			}
			fmt.Fprintf(out, "  %-36s %-28s %+8.4f %s\n",
				table.Key(attr, entry.Stat), catalog.Label(entry.Stat), entry.Coefficient, format)
		}
	}
	return nil
}
