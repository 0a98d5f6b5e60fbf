package normalizer

import (
	"fmt"
	"math/rand"
	"strings"

	"refnorm/internal/models"
)

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// SynthesizeID generates a session-stable identity for a record the
// upstream left without one: "<prefix>-<unix millis>-<random suffix>".
// The id only needs to be stable for one session's list rendering, not
// globally unique.
func (n *Normalizer) SynthesizeID() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return fmt.Sprintf("%s-%d-%s", n.cfg.IDPrefix, n.now().UnixMilli(), suffix)
}

// IsSynthesizedID reports whether id was generated by SynthesizeID (under
// the configured prefix).
func (n *Normalizer) IsSynthesizedID(id string) bool {
	return strings.HasPrefix(id, n.cfg.IDPrefix+"-")
}

// Dedupe drops records that repeat an earlier record's id, keeping the
// first occurrence and preserving order otherwise. Synthesized ids are
// never deduplicated against each other: two records that both happened to
// need a generated id are coincidentally, not semantically, related.
func (n *Normalizer) Dedupe(records []models.OrderRecord) []models.OrderRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.OrderRecord, 0, len(records))
	for _, rec := range records {
		if !n.IsSynthesizedID(rec.ID) {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
		}
		out = append(out, rec)
	}
	return out
}
