// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"crewcal/database"
	"crewcal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository is the store adapter: an opaque per-subject document
// read/write. Payloads travel as raw strings; parsing them is the engine's
// job, which is what lets legacy persisted shapes survive round trips.
type AvailabilityRepository interface {
	// GetRaw returns the persisted payload for a subject, or "" when the
	// subject has never been saved. Absence is not an error.
	GetRaw(ctx context.Context, subjectID string, kind models.SubjectKind) (string, error)
	// SaveRaw replaces the subject's whole document atomically (upsert,
	// last-write-wins at document granularity).
	SaveRaw(ctx context.Context, subjectID string, kind models.SubjectKind, payload string) error
	Delete(ctx context.Context, subjectID string, kind models.SubjectKind) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs the MongoDB-backed store adapter.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database("crewcal")
	return &mongoAvailabilityRepo{
		coll: db.Collection("availability"),
	}
}
