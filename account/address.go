// Package account defines the 20-byte identity used for organizers, holders,
// escrow accounts and relayers, encoded as base58 P2PKH addresses.
package account

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
)

// AddressSize is the length of an address hash in bytes.
const AddressSize = 20

// Address is the HASH160 of an actor's public key (or a derived tag for
// engine-owned accounts such as escrows).
type Address [AddressSize]byte

// Zero is the empty address. It never identifies a real actor.
var Zero Address

// mainnet selects the base58 version byte used by String.
var mainnet = true

// SetMainnet switches address encoding between mainnet and testnet prefixes.
// It is meant to be called once at startup from configuration.
func SetMainnet(on bool) { mainnet = on }

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == Zero }

// String returns the base58 P2PKH encoding of the address.
func (a Address) String() string {
	addr, err := script.NewAddressFromPublicKeyHash(a[:], mainnet)
	if err != nil {
		return hex.EncodeToString(a[:])
	}
	return addr.AddressString
}

// Hex returns the raw hash as lowercase hex.
func (a Address) Hex() string { return hex.EncodeToString(a[:]) }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Parse decodes a base58 P2PKH address string.
func Parse(s string) (Address, error) {
	addr, err := script.NewAddressFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return FromHash([]byte(addr.PublicKeyHash))
}

// FromHash builds an address from a 20-byte public key hash.
func FromHash(h []byte) (Address, error) {
	if len(h) != AddressSize {
		return Zero, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressSize, len(h))
	}
	var a Address
	copy(a[:], h)
	return a, nil
}

// FromPublicKey derives the address of a secp256k1 public key.
func FromPublicKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return Zero, fmt.Errorf("%w: public key", ErrNilParam)
	}
	var a Address
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a, nil
}

// Derive returns a deterministic engine-owned address for (tag, id), e.g. the
// escrow account of production id.
func Derive(tag string, id uint64) Address {
	buf := make([]byte, len(tag)+8)
	copy(buf, tag)
	binary.BigEndian.PutUint64(buf[len(tag):], id)
	var a Address
	copy(a[:], bsvhash.Hash160(buf))
	return a
}
