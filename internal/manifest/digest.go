package manifest

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/material-cli/material/internal/component"
)

// ComputeDigest computes a SHA256 digest over the published descriptors.
// The digest is independent of input order: descriptors are sorted by
// lowercased id, then serialized one per line.
func ComputeDigest(descs []*component.Descriptor) (string, error) {
	sorted := make([]*component.Descriptor, len(descs))
	copy(sorted, descs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key() < sorted[j].Key()
	})

	h := sha256.New()
	for i, d := range sorted {
		pub, err := d.Public()
		if err != nil {
			return "", fmt.Errorf("%s: %w", d.ID, err)
		}
		h.Write(pub)
		if i < len(sorted)-1 {
			h.Write([]byte("\n"))
		}
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// ReadDigest returns the digest recorded in an existing index manifest, or
// "" when there is none.
func ReadDigest(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "digest").String()
}
