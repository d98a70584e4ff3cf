package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/corebc/go-corebc/cmd/exitcodes"
	"github.com/corebc/go-corebc/crypto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// selectorCmd represents the selector command, deriving identifiers from canonical signatures.
var selectorCmd = &cobra.Command{
	Use:   "selector [signature]",
	Short: "Derive the selector of a canonical function or event signature",
	Long: `Derive the selector of a canonical signature such as "transfer(address,uint256)".

Function selectors are the leading four bytes of the signature's SHA3-256 digest; event
selectors (--event) are the full 32-byte digest carried in topic zero.`,
	Args:          cobra.ExactArgs(1),
	RunE:          cmdRunSelector,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	selectorCmd.Flags().Bool("event", false, "derive the 32-byte event selector instead of the 4-byte function selector")
	rootCmd.AddCommand(selectorCmd)
}

// cmdRunSelector executes the CLI selector command.
func cmdRunSelector(cmd *cobra.Command, args []string) error {
	sig := strings.TrimSpace(args[0])
	if !strings.Contains(sig, "(") || !strings.HasSuffix(sig, ")") {
		err := errors.Errorf("%q is not a canonical signature; expected name(type,...)", sig)
		cmdLogger.Error("Failed to derive a selector", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeInvalidInput)
	}

	asEvent, err := cmd.Flags().GetBool("event")
	if err != nil {
		return err
	}

	digest := crypto.SHA3([]byte(sig))
	if asEvent {
		fmt.Printf("0x%s\n", hex.EncodeToString(digest))
	} else {
		fmt.Printf("0x%s\n", hex.EncodeToString(digest[:4]))
	}
	return nil
}
