package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/rpgstat/internal/game/progression"
)

var (
	curveLevels int
	curveBase   float64
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the experience cost of each level",
	RunE:  runCurve,
}

func init() {
	curveCmd.Flags().IntVar(&curveLevels, "levels", 20, "highest level to print")
	curveCmd.Flags().Float64Var(&curveBase, "base", 0, "base experience (0 uses the configured value)")
}

func runCurve(cmd *cobra.Command, _ []string) error {
	base := curveBase
	if base <= 0 {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		base = cfg.Progression.BaseExperience
	}
	curve := progression.NewCurve(base)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%6s %16s %14s\n", "level", "total", "next")
	for lvl := 1; lvl <= curveLevels; lvl++ {
		fmt.Fprintf(out, "%6d %16s %14s\n",
			lvl,
			humanize.Commaf(curve.RequiredExperienceForLevel(lvl)),
			humanize.Commaf(curve.Cost(lvl)),
		)
	}
	return nil
}
