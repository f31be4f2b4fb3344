package repositories

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Document field names used by the ambulances collection.
const (
	fieldUnitID   = "ambulance_id"
	fieldName     = "driver_name"
	fieldContact  = "contact_number"
	fieldStatus   = "status"
	fieldLocation = "current_location"
)

// Firestore-backed implementation of the UnitRepository port. Each document
// in the collection is one unit; the document id is the unit key.
type FirestoreUnitRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreClient builds a Firestore client from a base64 encoded
// service account key.
func NewFirestoreClient(ctx context.Context, keyBase64 string) (*firestore.Client, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("firestore: decode service account key: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(key))
	if err != nil {
		return nil, fmt.Errorf("firestore: init firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: open client: %w", err)
	}
	return client, nil
}

func NewFirestoreUnitRepository(client *firestore.Client, collection string) *FirestoreUnitRepository {
	return &FirestoreUnitRepository{client: client, collection: collection}
}

func (f *FirestoreUnitRepository) ListUnits(ctx context.Context) ([]domain.UnitRecord, error) {
	if f.client == nil {
		return nil, errors.New("firestore unit repository: client is nil")
	}

	iter := f.client.Collection(f.collection).Documents(ctx)
	defer iter.Stop()

	units := make([]domain.UnitRecord, 0, 64)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list units: stream %q: %w", f.collection, err)
		}
		units = append(units, unitRecordFromData(doc.Ref.ID, doc.Data()))
	}

	return units, nil
}

func (f *FirestoreUnitRepository) GetUnit(ctx context.Context, key string) (domain.UnitRecord, error) {
	if f.client == nil {
		return domain.UnitRecord{}, errors.New("firestore unit repository: client is nil")
	}

	doc, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.UnitRecord{}, ports.ErrUnitNotFound
	}
	if err != nil {
		return domain.UnitRecord{}, fmt.Errorf("get unit %q: %w", key, err)
	}
	return unitRecordFromData(doc.Ref.ID, doc.Data()), nil
}

// FindUnit looks for a document whose ambulance_id field equals ref, then
// for a document with id ref.
func (f *FirestoreUnitRepository) FindUnit(ctx context.Context, ref string) (domain.UnitRecord, error) {
	if f.client == nil {
		return domain.UnitRecord{}, errors.New("firestore unit repository: client is nil")
	}

	iter := f.client.Collection(f.collection).Where(fieldUnitID, "==", ref).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	switch {
	case err == nil:
		return unitRecordFromData(doc.Ref.ID, doc.Data()), nil
	case !errors.Is(err, iterator.Done):
		return domain.UnitRecord{}, fmt.Errorf("find unit %q: %w", ref, err)
	}

	return f.GetUnit(ctx, ref)
}

// CompareAndSetStatus reads and writes the status inside one transaction.
// Firestore retries the transaction on contention, so the status check is
// always made against the committed value.
func (f *FirestoreUnitRepository) CompareAndSetStatus(ctx context.Context, key string, from, to domain.UnitStatus) (bool, error) {
	if f.client == nil {
		return false, errors.New("firestore unit repository: client is nil")
	}

	ref := f.client.Collection(f.collection).Doc(key)
	swapped := false

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		swapped = false

		doc, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return nil
		}
		if err != nil {
			return err
		}

		current, _ := doc.Data()[fieldStatus].(string)
		if domain.UnitStatus(current) != from {
			return nil
		}

		swapped = true
		return tx.Update(ref, []firestore.Update{{Path: fieldStatus, Value: string(to)}})
	})
	if err != nil {
		return false, fmt.Errorf("set unit status %q: %w", key, err)
	}
	return swapped, nil
}

// unitRecordFromData maps a raw document onto a record. Only a GeoPoint
// counts as a location; anything else leaves Location nil.
func unitRecordFromData(docID string, data map[string]any) domain.UnitRecord {
	rec := domain.UnitRecord{
		Key:     docID,
		UnitID:  stringField(data, fieldUnitID),
		Name:    stringField(data, fieldName),
		Contact: stringField(data, fieldContact),
		Status:  stringField(data, fieldStatus),
	}

	if gp, ok := data[fieldLocation].(*latlng.LatLng); ok && gp != nil {
		loc := domain.Location{Lat: gp.GetLatitude(), Lng: gp.GetLongitude()}
		if loc.Valid() {
			rec.Location = &loc
		}
	}
	return rec
}

func stringField(data map[string]any, name string) string {
	switch v := data[name].(type) {
	case string:
		return v
	case int64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}
