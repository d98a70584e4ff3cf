package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/corebc/go-corebc/abi"
	"github.com/corebc/go-corebc/cmd/exitcodes"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// decodeCmd represents the decode command, decoding ABI payloads offline.
var decodeCmd = &cobra.Command{
	Use:   "decode [types] [data]",
	Short: "Decode an ABI payload against a comma-separated type list",
	Long: `Decode a hex ABI payload against a comma-separated type list, entirely offline.

Example:
  corebc decode "address,uint256" 0x0000...03e8`,
	Args:          cobra.ExactArgs(2),
	RunE:          cmdRunDecode,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

// cmdRunDecode executes the CLI decode command.
func cmdRunDecode(cmd *cobra.Command, args []string) error {
	memberTypes, err := parseTypeList(args[0])
	if err != nil {
		cmdLogger.Error("Failed to parse the type list", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(args[1]), "0x"))
	if err != nil {
		err = errors.Wrap(err, "invalid hex payload")
		cmdLogger.Error("Failed to parse the payload", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	arguments := make(abi.Arguments, len(memberTypes))
	for i, t := range memberTypes {
		arguments[i] = abi.Argument{Type: t}
	}
	values, err := arguments.Unpack(data)
	if err != nil {
		cmdLogger.Error("Failed to decode the payload", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	for i, value := range values {
		fmt.Printf("%s: %s\n", memberTypes[i].Canonical(), formatValue(value))
	}
	return nil
}
