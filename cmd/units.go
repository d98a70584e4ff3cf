package cmd

import (
	"fmt"

	"github.com/corebc/go-corebc/cmd/exitcodes"
	"github.com/corebc/go-corebc/utils"
	"github.com/spf13/cobra"
)

// unitsCmd represents the units command, converting between currency denominations.
var unitsCmd = &cobra.Command{
	Use:   "units [amount]",
	Short: "Convert an amount between currency denominations",
	Long: `Convert an amount between currency denominations.

Example:
  corebc units --from core --to ore 1.5

Known denominations: ore, wav, grav, nucle, atom, moli, core.`,
	Args:          cobra.ExactArgs(1),
	RunE:          cmdRunUnits,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	unitsCmd.Flags().String("from", "core", "denomination of the input amount")
	unitsCmd.Flags().String("to", "ore", "denomination of the output amount")

	// Complete both denomination flags from the known unit names.
	err := unitsCmd.RegisterFlagCompletionFunc("from", cmdCompleteUnitNames)
	if err == nil {
		err = unitsCmd.RegisterFlagCompletionFunc("to", cmdCompleteUnitNames)
	}
	if err != nil {
		cmdLogger.Panic("Failed to initialize the units command", err)
	}

	rootCmd.AddCommand(unitsCmd)
}

// cmdCompleteUnitNames suggests the known denominations for flag completion.
func cmdCompleteUnitNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return utils.UnitNames(), cobra.ShellCompDirectiveNoFileComp
}

// cmdRunUnits executes the CLI units command.
func cmdRunUnits(cmd *cobra.Command, args []string) error {
	fromName, err := cmd.Flags().GetString("from")
	if err != nil {
		return err
	}
	toName, err := cmd.Flags().GetString("to")
	if err != nil {
		return err
	}

	from, err := utils.ParseUnit(fromName)
	if err != nil {
		cmdLogger.Error("Failed to resolve the source denomination", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}
	to, err := utils.ParseUnit(toName)
	if err != nil {
		cmdLogger.Error("Failed to resolve the target denomination", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	// Convert through ore, the common base unit.
	ore, err := utils.ParseUnits(args[0], from)
	if err != nil {
		cmdLogger.Error("Failed to parse the amount", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	fmt.Printf("%s %s = %s %s\n", args[0], from, utils.FormatUnits(ore, to), to)
	return nil
}
