package slotstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eletralog/errs"
	"eletralog/models"
)

const opTimeout = 5 * time.Second

// Mongo implements Store on a collection carrying the unique
// (date, location, time) index. The index, not the application re-check,
// is what makes concurrent bookings mutually exclusive.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

func (m *Mongo) ListSlots(ctx context.Context, f Filter) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.Location != "" {
		filter["location"] = f.Location
	}

	cur, err := m.coll.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "location", Value: 1},
		{Key: "time", Value: 1},
	}))
	if err != nil {
		return nil, errs.Store("listSlots", err)
	}
	defer cur.Close(ctx)

	slots := []models.Slot{}
	if err := cur.All(ctx, &slots); err != nil {
		return nil, errs.Store("listSlots", err)
	}
	return slots, nil
}

func (m *Mongo) GetSlot(ctx context.Context, date, timeLabel, location string) (models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var s models.Slot
	err := m.coll.FindOne(ctx, bson.M{"date": date, "time": timeLabel, "location": location}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return models.Slot{}, &errs.NotFound{Reason: "slot not found"}
	}
	if err != nil {
		return models.Slot{}, errs.Store("getSlot", err)
	}
	return s, nil
}

func (m *Mongo) CreateSlotsBatch(ctx context.Context, slots []models.Slot) error {
	if len(slots) == 0 {
		return errs.Validation("empty slot batch")
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	docs := make([]interface{}, len(slots))
	for i, s := range slots {
		docs[i] = s
	}

	_, err := m.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return nil
	}

	// Ordered insert stops at the first failure, duplicate key or not;
	// undo whatever part of this batch made it in so the contract stays
	// all-or-nothing. The request ctx may already be dead (that can be
	// exactly why the insert failed), so the rollback runs on its own
	// deadline, and a rollback failure is reported instead of swallowed.
	rbCtx, rbCancel := context.WithTimeout(context.Background(), opTimeout)
	defer rbCancel()
	if _, rbErr := m.coll.DeleteMany(rbCtx, rollbackFilter(slots)); rbErr != nil {
		return errs.Store("createSlotsBatch rollback", rbErr)
	}

	return classifyInsertErr(err, slots)
}

// rollbackFilter matches exactly the rows of this batch, by their unique
// slot ids. Keying on anything shared would over-delete: visitId can be
// empty on legacy-shaped batches, and the key of a conflicting slot
// belongs to its current owner.
func rollbackFilter(slots []models.Slot) bson.M {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return bson.M{"id": bson.M{"$in": ids}}
}

// classifyInsertErr maps an InsertMany failure to the taxonomy: duplicate
// key means the slot is already owned, anything else is a store fault.
func classifyInsertErr(err error, slots []models.Slot) error {
	if !mongo.IsDuplicateKeyError(err) {
		return errs.Store("createSlotsBatch", err)
	}

	conflictTime := slots[0].Time
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
		if i := bwe.WriteErrors[0].Index; i >= 0 && i < len(slots) {
			conflictTime = slots[i].Time
		}
	}
	return &errs.SlotConflict{Time: conflictTime}
}

func (m *Mongo) DeleteSlot(ctx context.Context, date, timeLabel, location, owner string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"date": date, "time": timeLabel, "location": location}
	if owner != "" {
		filter["ownerId"] = owner
	}
	res, err := m.coll.DeleteOne(ctx, filter)
	if err != nil {
		return errs.Store("deleteSlot", err)
	}
	if res.DeletedCount == 0 {
		return &errs.NotFound{Reason: "slot not found"}
	}
	return nil
}

func (m *Mongo) UpdateSlotsBatch(ctx context.Context, ids []string, from []models.Status, patch Patch) (int64, []string, error) {
	if len(ids) == 0 {
		return 0, nil, errs.Validation("no slot ids given")
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": ids}}
	if len(from) > 0 {
		filter["status"] = bson.M{"$in": from}
	}

	// identify the matching set first so unmatched ids can be named; the
	// update reuses the same filter, so a row changing in between simply
	// drops out of the matched count
	cur, err := m.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return 0, nil, errs.Store("updateSlotsBatch", err)
	}
	var rows []struct {
		ID string `bson:"id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, nil, errs.Store("updateSlotsBatch", err)
	}
	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.ID] = true
	}
	unmatched := []string{}
	for _, id := range ids {
		if !present[id] {
			unmatched = append(unmatched, id)
		}
	}

	set := bson.M{"status": patch.Status}
	if patch.StatusNote != nil {
		set["statusNote"] = *patch.StatusNote
	}
	if patch.AnomalyReason != nil {
		set["anomalyReason"] = *patch.AnomalyReason
	}
	if patch.Resolved != nil {
		set["resolved"] = *patch.Resolved
	}
	if patch.Resolution != nil {
		set["resolution"] = patch.Resolution
	}

	res, err := m.coll.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, nil, errs.Store("updateSlotsBatch", err)
	}
	return res.MatchedCount, unmatched, nil
}
