package extraction

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes the source document of an extraction.
type Metadata struct {
	Name      string `json:"name,omitempty"`
	Format    Format `json:"format"`
	Bytes     int    `json:"bytes"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 of the raw document bytes
}

// NewMetadata stamps the document with the current time and its content hash.
func NewMetadata(name string, format Format, data []byte) *Metadata {
	return &Metadata{
		Name:      name,
		Format:    format,
		Bytes:     len(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      Hash(data),
	}
}

// Hash returns the hex SHA256 digest of data. Identical uploads share a hash,
// which makes it usable as a cache key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ToJSON marshals Metadata to indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return out, nil
}
