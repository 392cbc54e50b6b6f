package services

import "dispatch-conflict-service/internal/domain"

// DedupConflicts removes repeated conflicts sharing a key. The first occurrence keeps its
// position; a later Critical with the same key replaces an earlier Warning so the most
// urgent variant survives regardless of counterpart order.
func DedupConflicts(in []domain.Conflict) []domain.Conflict {
	out := make([]domain.Conflict, 0, len(in))
	index := make(map[domain.ConflictKey]int, len(in))

	for _, c := range in {
		k := c.Key()
		if i, ok := index[k]; ok {
			if c.Severity > out[i].Severity {
				out[i] = c
			}
			continue
		}
		index[k] = len(out)
		out = append(out, c)
	}

	return out
}
