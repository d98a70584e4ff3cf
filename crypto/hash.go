package crypto

import (
	"fmt"

	"github.com/corebc/go-corebc/types"
	"golang.org/x/crypto/sha3"
)

// SHA3 computes the FIPS-202 SHA3-256 digest over the concatenation of the provided byte slices.
// SHA3-256 is the identifier hash of Core networks, used for selectors, transaction identifiers,
// and block hashes alike.
func SHA3(data ...[]byte) []byte {
	h := sha3.New256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// SHA3Hash computes the SHA3-256 digest over the concatenation of the provided byte slices and
// returns it as a Hash.
func SHA3Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(SHA3(data...))
}

// messagePrefix is prepended to free-form messages before hashing so that a signed message can
// never double as a valid transaction preimage.
const messagePrefix = "\x19Core Signed Message:\n"

// HashMessage computes the digest of a free-form message the way wallet message-signing does:
// SHA3-256 over the prefix, the decimal message length, and the message itself.
func HashMessage(message []byte) types.Hash {
	return SHA3Hash([]byte(messagePrefix), []byte(fmt.Sprintf("%d", len(message))), message)
}
