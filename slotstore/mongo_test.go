package slotstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eletralog/errs"
	"eletralog/models"
)

func batch() []models.Slot {
	return []models.Slot{
		slot("id-1", "2024-06-01", "08:00", models.LocationDock, ""),
		slot("id-2", "2024-06-01", "08:10", models.LocationDock, ""),
	}
}

func TestRollbackFilterKeysOnSlotIDs(t *testing.T) {
	f := rollbackFilter(batch())

	require.Contains(t, f, "id")
	assert.Equal(t, bson.M{"$in": []string{"id-1", "id-2"}}, f["id"])

	// never on shared fields: an empty visitId must not be able to match
	// unrelated legacy rows, and the key of a conflicting slot belongs to
	// its current owner
	assert.NotContains(t, f, "visitId")
	assert.NotContains(t, f, "date")
	assert.NotContains(t, f, "time")
}

func TestClassifyInsertErrDuplicateKey(t *testing.T) {
	err := classifyInsertErr(mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{
			WriteError: mongo.WriteError{Index: 1, Code: 11000, Message: "E11000 duplicate key"},
		}},
	}, batch())

	sc, ok := errs.IsConflict(err)
	require.True(t, ok)
	assert.Equal(t, "08:10", sc.Time)
}

func TestClassifyInsertErrStoreFault(t *testing.T) {
	err := classifyInsertErr(mongo.CommandError{Code: 91, Message: "shutdown in progress"}, batch())

	var se *errs.StoreError
	require.ErrorAs(t, err, &se)
	_, ok := errs.IsConflict(err)
	assert.False(t, ok)
}
