package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"forum/core"
	"forum/events"
	"forum/models"
)

type QuestionsRepository struct {
	store               *Store
	dispatcher          *events.Dispatcher
	questionAttachments *QuestionAttachmentsRepository
}

func NewQuestionsRepository(s *Store, d *events.Dispatcher, questionAttachments *QuestionAttachmentsRepository) *QuestionsRepository {
	return &QuestionsRepository{store: s, dispatcher: d, questionAttachments: questionAttachments}
}

func (r *QuestionsRepository) FindByID(ctx context.Context, id core.ID) (*models.Question, error) {
	coll, err := r.store.collection(questionsColl)
	if err != nil {
		return nil, err
	}
	var d questionDoc
	found, err := findOne(ctx, coll, id, &d)
	if err != nil || !found {
		return nil, err
	}
	qs, err := r.withAttachments(ctx, []questionDoc{d})
	if err != nil {
		return nil, err
	}
	return qs[0], nil
}

func (r *QuestionsRepository) FindBySlug(ctx context.Context, slug string) (*models.Question, error) {
	d, err := r.findDocBySlug(ctx, slug)
	if err != nil || d == nil {
		return nil, err
	}
	qs, err := r.withAttachments(ctx, []questionDoc{*d})
	if err != nil {
		return nil, err
	}
	return qs[0], nil
}

// withAttachments rehydrates docs together with their attachment links,
// loaded in one query.
func (r *QuestionsRepository) withAttachments(ctx context.Context, docs []questionDoc) ([]*models.Question, error) {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	links, err := r.questionAttachments.findByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find question attachments: %w", err)
	}
	out := make([]*models.Question, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.question(links[core.ID(d.ID)]))
	}
	return out, nil
}

func (r *QuestionsRepository) findDocBySlug(ctx context.Context, slug string) (*questionDoc, error) {
	coll, err := r.store.collection(questionsColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"slug": slug}, pageOptions(1, -1).SetLimit(1))
	if err != nil {
		return nil, err
	}
	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

// FindDetailsBySlug resolves the author name and attachments next to the
// question.
func (r *QuestionsRepository) FindDetailsBySlug(ctx context.Context, slug string) (*models.QuestionDetails, error) {
	d, err := r.findDocBySlug(ctx, slug)
	if err != nil || d == nil {
		return nil, err
	}
	details := &models.QuestionDetails{
		QuestionID:   core.ID(d.ID),
		AuthorID:     core.ID(d.AuthorID),
		Title:        d.Title,
		Slug:         models.NewSlug(d.Slug),
		Content:      d.Content,
		BestAnswerID: core.ID(d.BestAnswerID),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}

	students, err := r.store.collection(studentsColl)
	if err != nil {
		return nil, err
	}
	var author studentDoc
	found, err := findOne(ctx, students, core.ID(d.AuthorID), &author)
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	if found {
		details.AuthorName = author.Name
	}

	links, err := r.questionAttachments.FindManyByQuestionID(ctx, core.ID(d.ID))
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return details, nil
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.AttachmentID.String())
	}
	attachments, err := r.store.collection(attachmentsColl)
	if err != nil {
		return nil, err
	}
	cur, err := attachments.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find attachments: %w", err)
	}
	var docs []attachmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, a := range docs {
		details.Attachments = append(details.Attachments, models.NewAttachment(a.Title, a.URL, core.ID(a.ID)))
	}
	return details, nil
}

func (r *QuestionsRepository) FindManyRecent(ctx context.Context, page int) ([]*models.Question, error) {
	coll, err := r.store.collection(questionsColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{}, pageOptions(page, -1))
	if err != nil {
		return nil, err
	}
	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.withAttachments(ctx, docs)
}

func (r *QuestionsRepository) Create(ctx context.Context, q *models.Question) error {
	coll, err := r.store.collection(questionsColl)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, toQuestionDoc(q)); err != nil {
		return err
	}
	if err := r.questionAttachments.CreateMany(ctx, q.Attachments().CurrentItems()); err != nil {
		return err
	}
	q.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, q)
	return nil
}

func (r *QuestionsRepository) Save(ctx context.Context, q *models.Question) error {
	coll, err := r.store.collection(questionsColl)
	if err != nil {
		return err
	}
	if err := replaceOne(ctx, coll, q.ID(), toQuestionDoc(q)); err != nil {
		return err
	}
	if err := r.questionAttachments.CreateMany(ctx, q.Attachments().NewItems()); err != nil {
		return err
	}
	if err := r.questionAttachments.DeleteMany(ctx, q.Attachments().RemovedItems()); err != nil {
		return err
	}
	q.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, q)
	return nil
}

func (r *QuestionsRepository) Delete(ctx context.Context, q *models.Question) error {
	coll, err := r.store.collection(questionsColl)
	if err != nil {
		return err
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": q.ID().String()}); err != nil {
		return err
	}
	return r.questionAttachments.DeleteManyByQuestionID(ctx, q.ID())
}

type QuestionAttachmentsRepository struct {
	store *Store
}

func NewQuestionAttachmentsRepository(s *Store) *QuestionAttachmentsRepository {
	return &QuestionAttachmentsRepository{store: s}
}

func (r *QuestionAttachmentsRepository) FindManyByQuestionID(ctx context.Context, questionID core.ID) ([]*models.QuestionAttachment, error) {
	links, err := r.findByQuestionIDs(ctx, []string{questionID.String()})
	if err != nil {
		return nil, err
	}
	return links[questionID], nil
}

func (r *QuestionAttachmentsRepository) findByQuestionIDs(ctx context.Context, questionIDs []string) (map[core.ID][]*models.QuestionAttachment, error) {
	out := make(map[core.ID][]*models.QuestionAttachment, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}
	coll, err := r.store.collection(questionAttachmentsColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"question_id": bson.M{"$in": questionIDs}})
	if err != nil {
		return nil, err
	}
	var docs []questionAttachmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		qid := core.ID(d.QuestionID)
		out[qid] = append(out[qid], models.NewQuestionAttachment(qid, core.ID(d.AttachmentID), core.ID(d.ID)))
	}
	return out, nil
}

func (r *QuestionAttachmentsRepository) CreateMany(ctx context.Context, items []*models.QuestionAttachment) error {
	if len(items) == 0 {
		return nil
	}
	coll, err := r.store.collection(questionAttachmentsColl)
	if err != nil {
		return err
	}
	docs := make([]interface{}, 0, len(items))
	for _, it := range items {
		docs = append(docs, questionAttachmentDoc{ID: it.ID.String(), QuestionID: it.QuestionID.String(), AttachmentID: it.AttachmentID.String()})
	}
	_, err = coll.InsertMany(ctx, docs)
	return err
}

func (r *QuestionAttachmentsRepository) DeleteMany(ctx context.Context, items []*models.QuestionAttachment) error {
	if len(items) == 0 {
		return nil
	}
	coll, err := r.store.collection(questionAttachmentsColl)
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

func (r *QuestionAttachmentsRepository) DeleteManyByQuestionID(ctx context.Context, questionID core.ID) error {
	coll, err := r.store.collection(questionAttachmentsColl)
	if err != nil {
		return err
	}
	_, err = coll.DeleteMany(ctx, bson.M{"question_id": questionID.String()})
	return err
}
