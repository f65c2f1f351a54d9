package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewShortID(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewShortID()
		assert.Len(t, id, 8)
		for _, r := range id {
			assert.Contains(t, alphabet, string(r))
		}
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}
