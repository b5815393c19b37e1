package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forum/core"
	"forum/models"
)

type AttachmentsRepository struct {
	store *Store
}

func NewAttachmentsRepository(s *Store) *AttachmentsRepository {
	return &AttachmentsRepository{store: s}
}

func (r *AttachmentsRepository) FindByID(ctx context.Context, id core.ID) (*models.Attachment, error) {
	coll, err := r.store.collection(attachmentsColl)
	if err != nil {
		return nil, err
	}
	var d attachmentDoc
	found, err := findOne(ctx, coll, id, &d)
	if err != nil || !found {
		return nil, err
	}
	return models.NewAttachment(d.Title, d.URL, core.ID(d.ID)), nil
}

func (r *AttachmentsRepository) Create(ctx context.Context, a *models.Attachment) error {
	coll, err := r.store.collection(attachmentsColl)
	if err != nil {
		return err
	}
	_, err = coll.InsertOne(ctx, attachmentDoc{ID: a.ID.String(), Title: a.Title, URL: a.URL})
	return err
}

type QuestionCommentsRepository struct {
	store *Store
}

func NewQuestionCommentsRepository(s *Store) *QuestionCommentsRepository {
	return &QuestionCommentsRepository{store: s}
}

func (r *QuestionCommentsRepository) FindByID(ctx context.Context, id core.ID) (*models.QuestionComment, error) {
	coll, err := r.store.collection(questionCommentsColl)
	if err != nil {
		return nil, err
	}
	var d commentDoc
	found, err := findOne(ctx, coll, id, &d)
	if err != nil || !found {
		return nil, err
	}
	return &models.QuestionComment{Comment: d.comment(), QuestionID: core.ID(d.QuestionID)}, nil
}

func (r *QuestionCommentsRepository) FindManyByQuestionID(ctx context.Context, questionID core.ID, page int) ([]*models.QuestionComment, error) {
	coll, err := r.store.collection(questionCommentsColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"question_id": questionID.String()}, pageOptions(page, 1))
	if err != nil {
		return nil, err
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*models.QuestionComment, 0, len(docs))
	for _, d := range docs {
		out = append(out, &models.QuestionComment{Comment: d.comment(), QuestionID: core.ID(d.QuestionID)})
	}
	return out, nil
}

func (r *QuestionCommentsRepository) Create(ctx context.Context, c *models.QuestionComment) error {
	coll, err := r.store.collection(questionCommentsColl)
	if err != nil {
		return err
	}
	d := commentFields(c.Comment)
	d.QuestionID = c.QuestionID.String()
	_, err = coll.InsertOne(ctx, d)
	return err
}

func (r *QuestionCommentsRepository) Delete(ctx context.Context, c *models.QuestionComment) error {
	coll, err := r.store.collection(questionCommentsColl)
	if err != nil {
		return err
	}
	_, err = coll.DeleteOne(ctx, bson.M{"_id": c.ID.String()})
	return err
}

type AnswerCommentsRepository struct {
	store *Store
}

func NewAnswerCommentsRepository(s *Store) *AnswerCommentsRepository {
	return &AnswerCommentsRepository{store: s}
}

func (r *AnswerCommentsRepository) FindByID(ctx context.Context, id core.ID) (*models.AnswerComment, error) {
	coll, err := r.store.collection(answerCommentsColl)
	if err != nil {
		return nil, err
	}
	var d commentDoc
	found, err := findOne(ctx, coll, id, &d)
	if err != nil || !found {
		return nil, err
	}
	return &models.AnswerComment{Comment: d.comment(), AnswerID: core.ID(d.AnswerID)}, nil
}

func (r *AnswerCommentsRepository) FindManyByAnswerID(ctx context.Context, answerID core.ID, page int) ([]*models.AnswerComment, error) {
	coll, err := r.store.collection(answerCommentsColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"answer_id": answerID.String()}, pageOptions(page, 1))
	if err != nil {
		return nil, err
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*models.AnswerComment, 0, len(docs))
	for _, d := range docs {
		out = append(out, &models.AnswerComment{Comment: d.comment(), AnswerID: core.ID(d.AnswerID)})
	}
	return out, nil
}

func (r *AnswerCommentsRepository) Create(ctx context.Context, c *models.AnswerComment) error {
	coll, err := r.store.collection(answerCommentsColl)
	if err != nil {
		return err
	}
	d := commentFields(c.Comment)
	d.AnswerID = c.AnswerID.String()
	_, err = coll.InsertOne(ctx, d)
	return err
}

func (r *AnswerCommentsRepository) Delete(ctx context.Context, c *models.AnswerComment) error {
	coll, err := r.store.collection(answerCommentsColl)
	if err != nil {
		return err
	}
	_, err = coll.DeleteOne(ctx, bson.M{"_id": c.ID.String()})
	return err
}

type StudentsRepository struct {
	store *Store
}

func NewStudentsRepository(s *Store) *StudentsRepository {
	return &StudentsRepository{store: s}
}

func (r *StudentsRepository) FindByID(ctx context.Context, id core.ID) (*models.Student, error) {
	coll, err := r.store.collection(studentsColl)
	if err != nil {
		return nil, err
	}
	var d studentDoc
	found, err := findOne(ctx, coll, id, &d)
	if err != nil || !found {
		return nil, err
	}
	return &models.Student{ID: core.ID(d.ID), Name: d.Name}, nil
}

// Save upserts the student.
func (r *StudentsRepository) Save(ctx context.Context, s *models.Student) error {
	coll, err := r.store.collection(studentsColl)
	if err != nil {
		return err
	}
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": s.ID.String()}, studentDoc{ID: s.ID.String(), Name: s.Name}, options.Replace().SetUpsert(true))
	return err
}

type NotificationsRepository struct {
	store *Store
}

func NewNotificationsRepository(s *Store) *NotificationsRepository {
	return &NotificationsRepository{store: s}
}

func (r *NotificationsRepository) FindByID(ctx context.Context, id core.ID) (*models.Notification, error) {
	coll, err := r.store.collection(notificationsColl)
	if err != nil {
		return nil, err
	}
	var d notificationDoc
	found, err := findOne(ctx, coll, id, &d)
	if err != nil || !found {
		return nil, err
	}
	return d.notification(), nil
}

func (r *NotificationsRepository) FindManyByRecipientID(ctx context.Context, recipientID core.ID, page int) ([]*models.Notification, error) {
	coll, err := r.store.collection(notificationsColl)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{"recipient_id": recipientID.String()}, pageOptions(page, -1))
	if err != nil {
		return nil, err
	}
	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*models.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.notification())
	}
	return out, nil
}

// Create is idempotent on the notification id.
func (r *NotificationsRepository) Create(ctx context.Context, n *models.Notification) error {
	coll, err := r.store.collection(notificationsColl)
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(ctx, bson.M{"_id": n.ID.String()}, bson.M{"$setOnInsert": toNotificationDoc(n)}, options.Update().SetUpsert(true))
	return err
}

func (r *NotificationsRepository) Save(ctx context.Context, n *models.Notification) error {
	coll, err := r.store.collection(notificationsColl)
	if err != nil {
		return err
	}
	return replaceOne(ctx, coll, n.ID, toNotificationDoc(n))
}
