package types

// Network identifies a Core network by its numeric network id. The network determines both the
// replay-protection value mixed into transaction sighashes and the ICAN address prefix.
type Network uint64

const (
	// Mainnet is the Core main network.
	Mainnet Network = 1
	// Devin is the Core public test network.
	Devin Network = 3
)

// AddressPrefix returns the two character ICAN address prefix used by accounts on this network:
// "cb" on mainnet, "ab" on the test network, and "ce" on private networks.
func (n Network) AddressPrefix() string {
	switch n {
	case Mainnet:
		return "cb"
	case Devin:
		return "ab"
	default:
		return "ce"
	}
}

// String returns a human readable name for well-known networks and the decimal id otherwise.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Devin:
		return "devin"
	default:
		return "private"
	}
}
