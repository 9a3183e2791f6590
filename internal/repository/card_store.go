package repository

import (
	"context"
	"errors"

	"github.com/unity-school/idcard-api/internal/models"
)

// ErrEmptyStore is returned by DeleteByID when there is no stored collection
// to delete from.
var ErrEmptyStore = errors.New("card store is empty")

// CardStore is the abstract local persistence for student records. The
// stored collection lives under one namespaced key as a JSON array, newest
// first. Every operation is a whole-collection read-modify-write; each
// implementation serialises those internally so concurrent HTTP requests
// cannot interleave them.
type CardStore interface {
	// Append prepends the record; newest-first ordering is the store's
	// responsibility, not the caller's.
	Append(ctx context.Context, record models.StudentRecord) error

	// ListAll returns the stored records in store order. A corrupt or
	// unreadable store degrades to an empty result, never an error.
	ListAll(ctx context.Context) []models.StudentRecord

	// DeleteByID removes the record with the matching id. It fails when the
	// store is empty or unreadable and succeeds otherwise, matched or not.
	DeleteByID(ctx context.Context, id string) error
}

// prepend returns the collection with record at the front.
func prepend(records []models.StudentRecord, record models.StudentRecord) []models.StudentRecord {
	out := make([]models.StudentRecord, 0, len(records)+1)
	out = append(out, record)
	return append(out, records...)
}

// withoutID filters the record with the given id, keeping order.
func withoutID(records []models.StudentRecord, id string) []models.StudentRecord {
	out := records[:0]
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
