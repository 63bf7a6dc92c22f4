package gateway

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

var ErrAuthentication = errors.New("interaction signature verification failed")

// Verifier checks the Ed25519 signature over timestamp header + raw body.
type Verifier struct {
	key ed25519.PublicKey
}

func NewVerifier(publicKeyHex string) (*Verifier, error) {
	key, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}
	return &Verifier{key: ed25519.PublicKey(key)}, nil
}

// Verify leaves r.Body readable with the same bytes it was checked against.
func (v *Verifier) Verify(r *http.Request) error {
	if !discordgo.VerifyInteraction(r, v.key) {
		return ErrAuthentication
	}
	return nil
}
