// Package utils provides small shared helpers: denomination conversion and context utilities.
package utils

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Unit is a currency denomination, expressed as its number of decimal places relative to ore, the
// indivisible base unit.
type Unit int32

const (
	// Ore is the base unit.
	Ore Unit = 0
	// Wav is 10^3 ore.
	Wav Unit = 3
	// Grav is 10^6 ore.
	Grav Unit = 6
	// Nucle is 10^9 ore.
	Nucle Unit = 9
	// Atom is 10^12 ore.
	Atom Unit = 12
	// Moli is 10^15 ore.
	Moli Unit = 15
	// Core is 10^18 ore, the unit balances are usually displayed in.
	Core Unit = 18
)

// unitNames maps denomination names to their decimal places.
var unitNames = map[string]Unit{
	"ore":   Ore,
	"wav":   Wav,
	"grav":  Grav,
	"nucle": Nucle,
	"atom":  Atom,
	"moli":  Moli,
	"core":  Core,
}

// UnitNames returns every known denomination name, smallest first.
func UnitNames() []string {
	names := maps.Keys(unitNames)
	slices.SortFunc(names, func(a, b string) int {
		return int(unitNames[a]) - int(unitNames[b])
	})
	return names
}

// ParseUnit resolves a denomination by name, case-insensitively.
func ParseUnit(name string) (Unit, error) {
	unit, ok := unitNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Errorf("unknown denomination %q", name)
	}
	return unit, nil
}

// String returns the denomination's name.
func (u Unit) String() string {
	for name, unit := range unitNames {
		if unit == u {
			return name
		}
	}
	return "unknown"
}

// ParseUnits converts a human-readable decimal amount in the given denomination into an integral
// ore amount. Amounts with a fractional ore remainder are rejected rather than rounded; value
// conversion must never silently lose precision.
func ParseUnits(amount string, unit Unit) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount %q", amount)
	}
	shifted := d.Shift(int32(unit))
	if shifted.Exponent() < 0 && !shifted.Equal(shifted.Truncate(0)) {
		return nil, errors.Errorf("amount %q has a fractional ore remainder at %s precision", amount, unit)
	}
	return shifted.BigInt(), nil
}

// FormatUnits renders an integral ore amount as a decimal string in the given denomination.
func FormatUnits(amount *big.Int, unit Unit) string {
	return decimal.NewFromBigInt(amount, -int32(unit)).String()
}
