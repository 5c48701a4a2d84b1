package service

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// Fingerprint hashes the policy name and every criterion state in catalog
// order. Omitted and explicit-null criteria hash the same, since both are
// Absent. Metadata does not contribute.
func Fingerprint(catalog *criteria.Catalog, set criteria.Set) string {
	h := xxhash.New()

	_, _ = h.WriteString(catalog.Name())
	_, _ = h.Write([]byte{0})

	for _, name := range catalog.Names() {
		_, _ = h.WriteString(name)
		_, _ = h.Write([]byte{'=', byte(set.Get(name)), 0})
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
