package crypto

import (
	"fmt"

	"github.com/corebc/go-corebc/types"
)

// Signer is the signing capability consumed by the middleware stack. Implementations hold key
// material (in memory, in a keystore, or behind a hardware device) and produce signatures over
// 32-byte digests. Implementations must be safe for concurrent use.
type Signer interface {
	// Address returns the ICAN address the signer produces signatures for.
	Address() types.Address

	// SignDigest signs the given 32-byte digest and returns the full wire signature. A rejected
	// digest (for example, a hardware device declining) is reported as an error.
	SignDigest(digest types.Hash) (types.Signature, error)
}

// SigningError indicates the signing capability rejected a digest. It is always fatal for the
// submission that triggered it.
type SigningError struct {
	// Signer is the address of the signer that failed.
	Signer types.Address

	// Err is the underlying capability error.
	Err error
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed for %s: %v", e.Signer, e.Err)
}

// Unwrap returns the underlying capability error.
func (e *SigningError) Unwrap() error {
	return e.Err
}
