package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// MongoDB names.
const (
	DefaultDatabase    = "deptiers"
	SnapshotCollection = "snapshots"
)

// MongoStore keeps snapshots in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and ensures the created_at index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(SnapshotCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// snapshotDoc is the BSON form of a Snapshot. Dependencies are stored as an
// array of pairs because BSON documents decoded into Go maps lose order.
type snapshotDoc struct {
	ID        string      `bson:"_id"`
	Name      string      `bson:"name"`
	Records   []recordDoc `bson:"records,omitempty"`
	CreatedAt time.Time   `bson:"created_at"`
}

type recordDoc struct {
	Name         string           `bson:"name"`
	Version      string           `bson:"version"`
	Dependencies []requirementDoc `bson:"dependencies,omitempty"`
}

type requirementDoc struct {
	Name    string `bson:"name"`
	Version string `bson:"version"`
}

func toDoc(s *Snapshot) snapshotDoc {
	doc := snapshotDoc{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt}
	for _, r := range s.Records {
		rd := recordDoc{Name: r.Name, Version: r.Version}
		for _, req := range r.Requires() {
			rd.Dependencies = append(rd.Dependencies, requirementDoc{Name: req.Name, Version: req.Version})
		}
		doc.Records = append(doc.Records, rd)
	}
	return doc
}

func fromDoc(doc snapshotDoc) *Snapshot {
	s := &Snapshot{
		ID:        doc.ID,
		Name:      doc.Name,
		Records:   make([]deps.Record, 0, len(doc.Records)),
		CreatedAt: doc.CreatedAt.UTC(),
	}
	for _, rd := range doc.Records {
		r := deps.Record{Name: rd.Name, Version: rd.Version}
		if len(rd.Dependencies) > 0 {
			r.Dependencies = deps.NewRequirements()
			for _, d := range rd.Dependencies {
				r.Dependencies.Set(d.Name, d.Version)
			}
		}
		s.Records = append(s.Records, r)
	}
	return s
}

func (s *MongoStore) Save(ctx context.Context, name string, records []deps.Record) (*Snapshot, error) {
	snap, err := newSnapshot(name, records)
	if err != nil {
		return nil, err
	}
	if _, err := s.coll.InsertOne(ctx, toDoc(snap)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "insert snapshot")
	}
	return snap, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var doc snapshotDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "find snapshot")
	}
	return fromDoc(doc), nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit))).
		SetProjection(bson.M{"records": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list snapshots")
	}
	defer cur.Close(ctx)

	var docs []snapshotDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode snapshots")
	}
	out := make([]Snapshot, len(docs))
	for i, doc := range docs {
		out[i] = *fromDoc(doc)
		out[i].Records = nil
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete snapshot")
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
