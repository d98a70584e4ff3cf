package cmd

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/corebc/go-corebc/abi"
	"github.com/corebc/go-corebc/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cmdCompleteUnusedFlags suggests the flags of the current command that have not been set yet, for
// dynamic shell completion of commands whose positional arguments are free-form.
func cmdCompleteUnusedFlags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			// Include the "--" prefix so the suggestion reads as a flag rather than a positional
			// argument.
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// parseTypeList parses a comma-separated list of type expressions, respecting nested parentheses
// and brackets so tuple and array expressions survive the split.
func parseTypeList(expr string) ([]*abi.Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	var parts []string
	depth := 0
	start := 0
	for i, ch := range expr {
		switch ch {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, expr[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, expr[start:])

	parsed := make([]*abi.Type, len(parts))
	for i, part := range parts {
		t, err := abi.ParseType(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		parsed[i] = t
	}
	return parsed, nil
}

// parseValue converts one command line argument into the Go value expected by the codec for the
// given type. Composite types are not accepted on the command line.
func parseValue(t *abi.Type, s string) (interface{}, error) {
	switch t.Kind {
	case abi.KindUint, abi.KindInt:
		base := 10
		digits := s
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			base = 16
			digits = s[2:]
		}
		v, ok := new(big.Int).SetString(digits, base)
		if !ok {
			return nil, errors.Errorf("invalid integer value %q", s)
		}
		return v, nil
	case abi.KindBool:
		switch strings.ToLower(s) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		default:
			return nil, errors.Errorf("invalid boolean value %q", s)
		}
	case abi.KindAddress:
		return types.ParseAddress(s)
	case abi.KindFixedBytes, abi.KindBytes:
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid hex value %q", s)
		}
		return b, nil
	case abi.KindString:
		return s, nil
	default:
		return nil, errors.Errorf("type %s cannot be supplied on the command line", t.Canonical())
	}
}

// formatValue renders a decoded value for display.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(v)
	case *big.Int:
		return v.String()
	case string:
		return v
	case types.Address:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []interface{}:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = formatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
