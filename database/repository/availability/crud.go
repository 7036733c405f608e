// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewcal/models"
)

func (r *mongoAvailabilityRepo) GetRaw(ctx context.Context, subjectID string, kind models.SubjectKind) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"subjectId": subjectID, "kind": kind}
	var record models.AvailabilityRecord
	err := r.coll.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("fetch availability for %q: %w", subjectID, err)
	}
	return record.Payload, nil
}

func (r *mongoAvailabilityRepo) SaveRaw(ctx context.Context, subjectID string, kind models.SubjectKind, payload string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	record := models.AvailabilityRecord{
		SubjectID: subjectID,
		Kind:      kind,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	filter := bson.M{"subjectId": subjectID, "kind": kind}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, record, opts); err != nil {
		return fmt.Errorf("save availability for %q: %w", subjectID, err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) Delete(ctx context.Context, subjectID string, kind models.SubjectKind) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"subjectId": subjectID, "kind": kind})
	if err != nil {
		return fmt.Errorf("delete availability for %q: %w", subjectID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
