package types

import "github.com/google/uuid"

// Id lists stored in JSON columns are treated as sets: no duplicates, order
// irrelevant.

func ContainsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// AddID returns the set with id inserted, and whether it was absent before.
func AddID(ids []uuid.UUID, id uuid.UUID) ([]uuid.UUID, bool) {
	if ContainsID(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}

// RemoveID returns the set with id removed, and whether it was present.
func RemoveID(ids []uuid.UUID, id uuid.UUID) ([]uuid.UUID, bool) {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i:i], ids[i+1:]...), true
		}
	}
	return ids, false
}
