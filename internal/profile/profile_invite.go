package profile

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const InviteTTL = 72 * time.Hour

// NewInviteToken returns the raw token for the mail and the sha256 stored in credentials.
func NewInviteToken() (raw, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, HashInviteToken(raw), nil
}

func HashInviteToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
