package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Inspect and edit persisted coefficient overrides",
}

var overridesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List coefficients that differ from their defaults",
	Args:  cobra.NoArgs,
	RunE:  runOverridesList,
}

var overridesSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Override one coefficient, e.g. STR_MeleeDamageFactor 0.04",
	Args:  cobra.ExactArgs(2),
	RunE:  runOverridesSet,
}

var overridesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore every coefficient to its default",
	Args:  cobra.NoArgs,
	RunE:  runOverridesReset,
}

func init() {
	overridesCmd.AddCommand(overridesListCmd, overridesSetCmd, overridesResetCmd)
}

func runOverridesList(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	overrides := e.host.Overrides()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	if len(keys) == 0 {
		fmt.Fprintf(out, "no overrides (%s backend)\n", e.settings.Backend)
		return nil
	}
	for _, k := range keys {
		fmt.Fprintf(out, "%-36s %+.4f\n", k, overrides[k])
	}
	return nil
}

func runOverridesSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing value %q: %w", args[1], err)
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	if _, ok := e.host.Coefficients()[key]; !ok {
		return fmt.Errorf("unknown coefficient %q", key)
	}
	e.host.SetCoefficient(key, value)
	if err := e.host.SaveSettings(cmd.Context(), e.settings); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %+.4f\n", key, value)
	return nil
}

func runOverridesReset(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	e.host.ResetCoefficients()
	if err := e.host.SaveSettings(cmd.Context(), e.settings); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "coefficients reset to defaults")
	return nil
}
