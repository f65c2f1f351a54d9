package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// NewKey builds a collision-resistant object key for an uploaded file:
// a random UUID prefix joined with the original file name. Any path
// components in the client-supplied name are stripped.
func NewKey(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return uuid.NewString() + "-" + name
}
