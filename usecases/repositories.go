package usecases

import (
	"context"

	"forum/core"
	"forum/models"
)

// Repositories report a missing entity by returning a nil value and a nil
// error from their Find methods.

type QuestionsRepository interface {
	FindByID(ctx context.Context, id core.ID) (*models.Question, error)
	FindBySlug(ctx context.Context, slug string) (*models.Question, error)
	FindDetailsBySlug(ctx context.Context, slug string) (*models.QuestionDetails, error)
	FindManyRecent(ctx context.Context, page int) ([]*models.Question, error)
	Create(ctx context.Context, q *models.Question) error
	Save(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, q *models.Question) error
}

type QuestionAttachmentsRepository interface {
	FindManyByQuestionID(ctx context.Context, questionID core.ID) ([]*models.QuestionAttachment, error)
	CreateMany(ctx context.Context, items []*models.QuestionAttachment) error
	DeleteMany(ctx context.Context, items []*models.QuestionAttachment) error
	DeleteManyByQuestionID(ctx context.Context, questionID core.ID) error
}

type AnswersRepository interface {
	FindByID(ctx context.Context, id core.ID) (*models.Answer, error)
	FindManyByQuestionID(ctx context.Context, questionID core.ID, page int) ([]*models.Answer, error)
	Create(ctx context.Context, a *models.Answer) error
	Save(ctx context.Context, a *models.Answer) error
	Delete(ctx context.Context, a *models.Answer) error
}

type AnswerAttachmentsRepository interface {
	FindManyByAnswerID(ctx context.Context, answerID core.ID) ([]*models.AnswerAttachment, error)
	CreateMany(ctx context.Context, items []*models.AnswerAttachment) error
	DeleteMany(ctx context.Context, items []*models.AnswerAttachment) error
	DeleteManyByAnswerID(ctx context.Context, answerID core.ID) error
}

type AttachmentsRepository interface {
	FindByID(ctx context.Context, id core.ID) (*models.Attachment, error)
	Create(ctx context.Context, a *models.Attachment) error
}

type QuestionCommentsRepository interface {
	FindByID(ctx context.Context, id core.ID) (*models.QuestionComment, error)
	FindManyByQuestionID(ctx context.Context, questionID core.ID, page int) ([]*models.QuestionComment, error)
	Create(ctx context.Context, c *models.QuestionComment) error
	Delete(ctx context.Context, c *models.QuestionComment) error
}

type AnswerCommentsRepository interface {
	FindByID(ctx context.Context, id core.ID) (*models.AnswerComment, error)
	FindManyByAnswerID(ctx context.Context, answerID core.ID, page int) ([]*models.AnswerComment, error)
	Create(ctx context.Context, c *models.AnswerComment) error
	Delete(ctx context.Context, c *models.AnswerComment) error
}

type StudentsRepository interface {
	FindByID(ctx context.Context, id core.ID) (*models.Student, error)
	Save(ctx context.Context, s *models.Student) error
}

type NotificationsRepository interface {
	FindByID(ctx context.Context, id core.ID) (*models.Notification, error)
	FindManyByRecipientID(ctx context.Context, recipientID core.ID, page int) ([]*models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	Save(ctx context.Context, n *models.Notification) error
}

// NotificationPublisher pushes a stored notification towards its recipient.
type NotificationPublisher interface {
	Publish(ctx context.Context, n models.Notification) error
}
