package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"forum/core"
	"forum/events"
	"forum/models"
)

type AnswersRepository struct {
	store             *Store
	dispatcher        *events.Dispatcher
	answerAttachments *AnswerAttachmentsRepository
}

func NewAnswersRepository(s *Store, d *events.Dispatcher, answerAttachments *AnswerAttachmentsRepository) *AnswersRepository {
	return &AnswersRepository{store: s, dispatcher: d, answerAttachments: answerAttachments}
}

func (r *AnswersRepository) FindByID(ctx context.Context, id core.ID) (*models.Answer, error) {
	coll, err := r.store.collection(answersColl)
	if err != nil {
		return nil, err
	}
	var d answerDoc
	found, err := findOne(ctx, coll, id, &d)
	if err != nil || !found {
		return nil, err
	}
	as, err := r.withAttachments(ctx, []answerDoc{d})
	if err != nil {
		return nil, err
	}
	return as[0], nil
}

func (r *AnswersRepository) FindManyByQuestionID(ctx context.Context, questionID core.ID, page int) ([]*models.Answer, error) {
	coll, err := r.store.collection(answersColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"question_id": questionID.String()}, pageOptions(page, 1))
	if err != nil {
		return nil, err
	}
	var docs []answerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.withAttachments(ctx, docs)
}

func (r *AnswersRepository) withAttachments(ctx context.Context, docs []answerDoc) ([]*models.Answer, error) {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	links, err := r.answerAttachments.findByAnswerIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find answer attachments: %w", err)
	}
	out := make([]*models.Answer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.answer(links[core.ID(d.ID)]))
	}
	return out, nil
}

func (r *AnswersRepository) Create(ctx context.Context, a *models.Answer) error {
	coll, err := r.store.collection(answersColl)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, toAnswerDoc(a)); err != nil {
		return err
	}
	if err := r.answerAttachments.CreateMany(ctx, a.Attachments().CurrentItems()); err != nil {
		return err
	}
	a.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, a)
	return nil
}

func (r *AnswersRepository) Save(ctx context.Context, a *models.Answer) error {
	coll, err := r.store.collection(answersColl)
	if err != nil {
		return err
	}
	if err := replaceOne(ctx, coll, a.ID(), toAnswerDoc(a)); err != nil {
		return err
	}
	if err := r.answerAttachments.CreateMany(ctx, a.Attachments().NewItems()); err != nil {
		return err
	}
	if err := r.answerAttachments.DeleteMany(ctx, a.Attachments().RemovedItems()); err != nil {
		return err
	}
	a.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, a)
	return nil
}

func (r *AnswersRepository) Delete(ctx context.Context, a *models.Answer) error {
	coll, err := r.store.collection(answersColl)
	if err != nil {
		return err
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": a.ID().String()}); err != nil {
		return err
	}
	return r.answerAttachments.DeleteManyByAnswerID(ctx, a.ID())
}

type AnswerAttachmentsRepository struct {
	store *Store
}

func NewAnswerAttachmentsRepository(s *Store) *AnswerAttachmentsRepository {
	return &AnswerAttachmentsRepository{store: s}
}

func (r *AnswerAttachmentsRepository) FindManyByAnswerID(ctx context.Context, answerID core.ID) ([]*models.AnswerAttachment, error) {
	links, err := r.findByAnswerIDs(ctx, []string{answerID.String()})
	if err != nil {
		return nil, err
	}
	return links[answerID], nil
}

func (r *AnswerAttachmentsRepository) findByAnswerIDs(ctx context.Context, answerIDs []string) (map[core.ID][]*models.AnswerAttachment, error) {
	out := make(map[core.ID][]*models.AnswerAttachment, len(answerIDs))
	if len(answerIDs) == 0 {
		return out, nil
	}
	coll, err := r.store.collection(answerAttachmentsColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"answer_id": bson.M{"$in": answerIDs}})
	if err != nil {
		return nil, err
	}
	var docs []answerAttachmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		aid := core.ID(d.AnswerID)
		out[aid] = append(out[aid], models.NewAnswerAttachment(aid, core.ID(d.AttachmentID), core.ID(d.ID)))
	}
	return out, nil
}

func (r *AnswerAttachmentsRepository) CreateMany(ctx context.Context, items []*models.AnswerAttachment) error {
	if len(items) == 0 {
		return nil
	}
	coll, err := r.store.collection(answerAttachmentsColl)
	if err != nil {
		return err
	}
	docs := make([]interface{}, 0, len(items))
	for _, it := range items {
		docs = append(docs, answerAttachmentDoc{ID: it.ID.String(), AnswerID: it.AnswerID.String(), AttachmentID: it.AttachmentID.String()})
	}
	_, err = coll.InsertMany(ctx, docs)
	return err
}

func (r *AnswerAttachmentsRepository) DeleteMany(ctx context.Context, items []*models.AnswerAttachment) error {
	if len(items) == 0 {
		return nil
	}
	coll, err := r.store.collection(answerAttachmentsColl)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID.String())
	}
	_, err = coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (r *AnswerAttachmentsRepository) DeleteManyByAnswerID(ctx context.Context, answerID core.ID) error {
	coll, err := r.store.collection(answerAttachmentsColl)
	if err != nil {
		return err
	}
	_, err = coll.DeleteMany(ctx, bson.M{"answer_id": answerID.String()})
	return err
}
