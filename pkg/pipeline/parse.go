package pipeline

import (
	"github.com/matzehuels/lineplanner/pkg/bulletin"
	"github.com/matzehuels/lineplanner/pkg/cache"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// Normalize converts a bulletin grid into operations. Parse-fatal errors
// are returned unchanged so callers can inspect their code.
func Normalize(grid bulletin.Grid) ([]line.Operation, error) {
	return bulletin.Normalize(grid)
}

// GridHash is the content hash addressing a grid in the cache.
func GridHash(grid bulletin.Grid) string {
	return cache.HashJSON(grid)
}
