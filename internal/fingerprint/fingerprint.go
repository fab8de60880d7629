// Package fingerprint derives deterministic content IDs for catalogs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
	"github.com/hyperjump/niteru/internal/models"
)

const prefix = "catalog:"

type entry struct {
	Title       string   `json:"t"`
	Description string   `json:"d"`
	Genres      []string `json:"g"`
	Year        int      `json:"y"`
	Rating      float64  `json:"r"`
}

// Catalog returns a stable ID for movies. Order and every field except ID contribute,
// so the same catalog loaded from any source yields the same fingerprint.
func Catalog(movies []models.Movie) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, m := range movies {
		// Encoding a struct of strings, slices, and numbers cannot fail.
		_ = enc.Encode(entry{
			Title:       m.Title,
			Description: m.Description,
			Genres:      m.Genres,
			Year:        m.Year,
			Rating:      m.Rating,
		})
	}
	return prefix + hex.EncodeToString(h.Sum(nil))
}

// Short returns the first 12 hex digits of a fingerprint, for logs and status output.
func Short(fp string) string {
	if len(fp) > len(prefix) && fp[:len(prefix)] == prefix {
		fp = fp[len(prefix):]
	}
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
