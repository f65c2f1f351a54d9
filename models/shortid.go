package models

import (
	"crypto/rand"
	"encoding/base64"
)

// NewShortID returns an 8-character base64url identifier used as the
// public id of a business. 6 random bytes encode to exactly 8 characters.
func NewShortID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
