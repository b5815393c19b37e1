// Package store persists the forum in MongoDB.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"forum/core"
	"forum/logger"
)

const (
	questionsColl           = "questions"
	questionAttachmentsColl = "question_attachments"
	answersColl             = "answers"
	answerAttachmentsColl   = "answer_attachments"
	attachmentsColl         = "attachments"
	questionCommentsColl    = "question_comments"
	answerCommentsColl      = "answer_comments"
	studentsColl            = "students"
	notificationsColl       = "notifications"
)

var errNotInitialized = errors.New("mongo store not initialized")

// Store owns the MongoDB client and hands collections to the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB, pings and ensures indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("mongo initialized", logger.FieldKV("database", database))
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Ping health check.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errNotInitialized
	}
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) collection(name string) (*mongo.Collection, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialized
	}
	return s.db.Collection(name), nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		questionsColl: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetName("idx_slug")},
			{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_created_at")},
		},
		questionAttachmentsColl: {
			{Keys: bson.D{{Key: "question_id", Value: 1}}, Options: options.Index().SetName("idx_question_id")},
		},
		answersColl: {
			{Keys: bson.D{{Key: "question_id", Value: 1}, {Key: "created_at", Value: 1}}, Options: options.Index().SetName("idx_question_created")},
		},
		answerAttachmentsColl: {
			{Keys: bson.D{{Key: "answer_id", Value: 1}}, Options: options.Index().SetName("idx_answer_id")},
		},
		questionCommentsColl: {
			{Keys: bson.D{{Key: "question_id", Value: 1}}, Options: options.Index().SetName("idx_question_id")},
		},
		answerCommentsColl: {
			{Keys: bson.D{{Key: "answer_id", Value: 1}}, Options: options.Index().SetName("idx_answer_id")},
		},
		notificationsColl: {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_recipient_created")},
		},
	}
	for name, models := range indexes {
		coll, err := s.collection(name)
		if err != nil {
			return err
		}
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// pageOptions sorts by created_at and selects one page of core.PageSize items.
func pageOptions(page, direction int) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: direction}}).
		SetSkip(int64((page - 1) * core.PageSize)).
		SetLimit(core.PageSize)
}

// findOne decodes the document with the given _id into out. It reports
// false when there is none.
func findOne(ctx context.Context, coll *mongo.Collection, id core.ID, out interface{}) (bool, error) {
	err := coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// replaceOne overwrites an existing document, failing when it is missing.
func replaceOne(ctx context.Context, coll *mongo.Collection, id core.ID, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id.String()}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return core.ErrResourceNotFound
	}
	return nil
}
