package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantName string
	}{
		{name: "Plain filename kept as suffix", filename: "toko.png", wantName: "toko.png"},
		{name: "Unix path components stripped", filename: "../../etc/passwd.jpg", wantName: "passwd.jpg"},
		{name: "Windows path components stripped", filename: `C:\Users\foto\produk.jpeg`, wantName: "produk.jpeg"},
		{name: "Empty name gets placeholder", filename: "", wantName: "file"},
		{name: "Bare dot gets placeholder", filename: ".", wantName: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewKey(tt.filename)

			prefix, name, ok := strings.Cut(key, "-"+tt.wantName)
			require.True(t, ok, "key %q does not end in %q", key, tt.wantName)
			assert.Empty(t, name)

			_, err := uuid.Parse(prefix)
			assert.NoError(t, err, "prefix %q is not a uuid", prefix)
		})
	}
}

func TestNewKeyUnique(t *testing.T) {
	a := NewKey("same.png")
	b := NewKey("same.png")
	assert.NotEqual(t, a, b)
}
