// Package audit is the write-only action log: booking, cancellation and
// status actions land in Mongo and fan out over Redis for live viewers.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Channel carrying serialized entries for live subscribers.
const Channel = "audit-events"

// Recorder is what the engines depend on; the sink is append-only and
// failures must never fail the operation being logged.
type Recorder interface {
	Record(ctx context.Context, action, user, details string)
}

type Entry struct {
	ID        string    `json:"id" bson:"id"`
	Action    string    `json:"action" bson:"action"`
	User      string    `json:"user" bson:"user"`
	Details   string    `json:"details" bson:"details"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type Log struct {
	coll *mongo.Collection
	rdb  *redis.Client
}

// New builds the sink. rdb may be nil; entries then only reach Mongo.
func New(coll *mongo.Collection, rdb *redis.Client) *Log {
	return &Log{coll: coll, rdb: rdb}
}

func (l *Log) Record(ctx context.Context, action, user, details string) {
	entry := Entry{
		ID:        uuid.NewString(),
		Action:    action,
		User:      user,
		Details:   details,
		Timestamp: time.Now(),
	}

	insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := l.coll.InsertOne(insertCtx, entry); err != nil {
		log.Printf("audit: insert failed: %v", err)
	}

	if l.rdb == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := l.rdb.Publish(insertCtx, Channel, data).Err(); err != nil {
		log.Printf("audit: publish failed: %v", err)
	}
}

// LastEntries returns the newest entries, most recent first.
func (l *Log) LastEntries(ctx context.Context, limit int64) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := l.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := []Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
