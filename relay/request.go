// Package relay forwards meta-transactions: calls signed off-line by an end
// user and submitted by a relayer that pays for them. The forwarder checks
// the signature and nonce, then hands the authenticated sender to the target.
package relay

import (
	"encoding/binary"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"golang.org/x/crypto/sha3"

	"github.com/staxeio/staxe-go/account"
)

const digestDomain = "staxe/forward/v1"

// Request is a call From an end user To a target.
type Request struct {
	From    account.Address `json:"from"`
	To      account.Address `json:"to"`
	Nonce   uint64          `json:"nonce"`
	Payload []byte          `json:"payload"`
}

// Digest returns the Keccak-256 hash that the sender signs.
func (r *Request) Digest() []byte {
	h := sha3.NewLegacyKeccak256()
	var n [8]byte
	h.Write([]byte(digestDomain))
	h.Write(r.From[:])
	h.Write(r.To[:])
	binary.BigEndian.PutUint64(n[:], r.Nonce)
	h.Write(n[:])
	binary.BigEndian.PutUint64(n[:], uint64(len(r.Payload)))
	h.Write(n[:])
	h.Write(r.Payload)
	return h.Sum(nil)
}

// SignedRequest carries a request with the sender's compressed public key
// and DER signature over its digest.
type SignedRequest struct {
	Request
	PubKey    []byte `json:"pubKey"`
	Signature []byte `json:"signature"`
}

// Sign signs req with priv. req.From must be the address of priv.
func Sign(priv *ec.PrivateKey, req Request) (*SignedRequest, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidPublicKey)
	}
	from, err := account.FromPublicKey(priv.PubKey())
	if err != nil {
		return nil, err
	}
	if from != req.From {
		return nil, fmt.Errorf("%w: key is %s, request from %s", ErrSignerMismatch, from, req.From)
	}
	sig, err := priv.Sign(req.Digest())
	if err != nil {
		return nil, fmt.Errorf("relay: sign: %w", err)
	}
	return &SignedRequest{
		Request:   req,
		PubKey:    priv.PubKey().Compressed(),
		Signature: sig.Serialize(),
	}, nil
}

// verify checks the signature and that the key belongs to From.
func (s *SignedRequest) verify() error {
	pub, err := ec.PublicKeyFromBytes(s.PubKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	sig, err := ec.ParseDERSignature(s.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !sig.Verify(s.Digest(), pub) {
		return ErrInvalidSignature
	}
	signer, err := account.FromPublicKey(pub)
	if err != nil {
		return err
	}
	if signer != s.From {
		return fmt.Errorf("%w: %s", ErrSignerMismatch, signer)
	}
	return nil
}
