package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/corebc/go-corebc/abi"
	"github.com/corebc/go-corebc/cmd/exitcodes"
	"github.com/spf13/cobra"
)

// encodeCmd represents the encode command, producing ABI encodings offline.
var encodeCmd = &cobra.Command{
	Use:   "encode [types] [values...]",
	Short: "ABI-encode values against a comma-separated type list",
	Long: `ABI-encode values against a comma-separated type list, entirely offline.

Example:
  corebc encode "address,uint256" cb57...d2 1000

Integers accept decimal or 0x-hex, booleans accept true/false, byte types accept hex, and
strings are taken verbatim. With --packed, the non-standard packed encoding is produced
instead of the standard head/tail layout.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: cmdCompleteUnusedFlags,
	RunE:              cmdRunEncode,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	encodeCmd.Flags().Bool("packed", false, "produce the non-standard packed encoding")
	rootCmd.AddCommand(encodeCmd)
}

// cmdRunEncode executes the CLI encode command.
func cmdRunEncode(cmd *cobra.Command, args []string) error {
	memberTypes, err := parseTypeList(args[0])
	if err != nil {
		cmdLogger.Error("Failed to parse the type list", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	values := make([]interface{}, len(args)-1)
	for i, raw := range args[1:] {
		if i >= len(memberTypes) {
			break
		}
		value, err := parseValue(memberTypes[i], raw)
		if err != nil {
			cmdLogger.Error("Failed to parse a value", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
		}
		values[i] = value
	}

	packed, err := cmd.Flags().GetBool("packed")
	if err != nil {
		return err
	}

	var encoded []byte
	if packed {
		encoded, err = abi.EncodePacked(memberTypes, values)
	} else {
		args := make(abi.Arguments, len(memberTypes))
		for i, t := range memberTypes {
			args[i] = abi.Argument{Type: t}
		}
		encoded, err = args.Pack(values...)
	}
	if err != nil {
		cmdLogger.Error("Failed to encode the values", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	fmt.Printf("0x%s\n", hex.EncodeToString(encoded))
	return nil
}
