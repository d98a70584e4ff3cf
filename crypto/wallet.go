package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/corebc/go-corebc/types"
	"github.com/pkg/errors"
)

// Wallet is an in-memory Ed448 private key implementing the Signer capability. Transactions on
// Core networks are authorized with Ed448-Goldilocks signatures; the 57-byte public key rides
// along in the wire signature so nodes can verify without key recovery.
type Wallet struct {
	privateKey ed448.PrivateKey
	publicKey  ed448.PublicKey
	network    types.Network
	address    types.Address
}

// GenerateWallet creates a wallet with a fresh random key for the given network.
func GenerateWallet(network types.Network) (*Wallet, error) {
	seed := make([]byte, ed448.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, errors.Wrap(err, "entropy source failed")
	}
	return WalletFromSeed(seed, network)
}

// WalletFromSeed derives a wallet from a 57-byte Ed448 seed.
func WalletFromSeed(seed []byte, network types.Network) (*Wallet, error) {
	if len(seed) != ed448.SeedSize {
		return nil, errors.Errorf("invalid private key length: got %d bytes, want %d", len(seed), ed448.SeedSize)
	}
	privateKey := ed448.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed448.PublicKey)
	return &Wallet{
		privateKey: privateKey,
		publicKey:  publicKey,
		network:    network,
		address:    PubkeyToAddress(publicKey, network),
	}, nil
}

// WalletFromHex derives a wallet from the hex encoding of a 57-byte Ed448 seed, with or without a
// leading "0x".
func WalletFromHex(s string, network types.Network) (*Wallet, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key encoding")
	}
	return WalletFromSeed(seed, network)
}

// Address returns the wallet's ICAN address on its configured network.
func (w *Wallet) Address() types.Address {
	return w.address
}

// Network returns the network the wallet derives its address for.
func (w *Wallet) Network() types.Network {
	return w.network
}

// PublicKey returns the wallet's 57-byte Ed448 public key.
func (w *Wallet) PublicKey() []byte {
	return append([]byte{}, w.publicKey...)
}

// SignDigest signs a 32-byte digest and returns the wire signature: the 114-byte Ed448 signature
// followed by the public key.
func (w *Wallet) SignDigest(digest types.Hash) (types.Signature, error) {
	raw := ed448.Sign(w.privateKey, digest.Bytes(), "")
	return types.NewSignature(raw, w.publicKey)
}

// SignMessage signs a free-form message after prefix-hashing it with HashMessage.
func (w *Wallet) SignMessage(message []byte) (types.Signature, error) {
	return w.SignDigest(HashMessage(message))
}

// PubkeyToAddress derives the ICAN address of an Ed448 public key on the given network: the last
// 20 bytes of the key's SHA3-256 digest, wrapped with the network prefix and checksum.
func PubkeyToAddress(publicKey []byte, network types.Network) types.Address {
	digest := SHA3(publicKey)
	var payload [20]byte
	copy(payload[:], digest[len(digest)-20:])
	return types.ToICAN(payload, network)
}

// VerifySignature checks a wire signature against a digest and reports the signer's address on
// the given network. The embedded public key is used for both verification and derivation.
func VerifySignature(sig types.Signature, digest types.Hash, network types.Network) (types.Address, bool) {
	publicKey := ed448.PublicKey(sig.PublicKey())
	if !ed448.Verify(publicKey, digest.Bytes(), sig.SignatureBytes(), "") {
		return types.Address{}, false
	}
	return PubkeyToAddress(publicKey, network), true
}
