package store

import (
	"time"

	"forum/core"
	"forum/models"
)

type questionDoc struct {
	ID           string    `bson:"_id"`
	AuthorID     string    `bson:"author_id"`
	BestAnswerID string    `bson:"best_answer_id,omitempty"`
	Title        string    `bson:"title"`
	Slug         string    `bson:"slug"`
	Content      string    `bson:"content"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty"`
}

func toQuestionDoc(q *models.Question) questionDoc {
	return questionDoc{
		ID:           q.ID().String(),
		AuthorID:     q.AuthorID().String(),
		BestAnswerID: q.BestAnswerID().String(),
		Title:        q.Title(),
		Slug:         q.Slug().Value(),
		Content:      q.Content(),
		CreatedAt:    q.CreatedAt(),
		UpdatedAt:    q.UpdatedAt(),
	}
}

// question rehydrates the aggregate with its stored attachment links as the
// list baseline.
func (d questionDoc) question(links []*models.QuestionAttachment) *models.Question {
	return models.NewQuestion(models.QuestionProps{
		AuthorID:     core.ID(d.AuthorID),
		BestAnswerID: core.ID(d.BestAnswerID),
		Title:        d.Title,
		Slug:         models.NewSlug(d.Slug),
		Content:      d.Content,
		Attachments:  models.NewQuestionAttachmentList(links),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, core.ID(d.ID))
}

type answerDoc struct {
	ID         string    `bson:"_id"`
	AuthorID   string    `bson:"author_id"`
	QuestionID string    `bson:"question_id"`
	Content    string    `bson:"content"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at,omitempty"`
}

func toAnswerDoc(a *models.Answer) answerDoc {
	return answerDoc{
		ID:         a.ID().String(),
		AuthorID:   a.AuthorID().String(),
		QuestionID: a.QuestionID().String(),
		Content:    a.Content(),
		CreatedAt:  a.CreatedAt(),
		UpdatedAt:  a.UpdatedAt(),
	}
}

func (d answerDoc) answer(links []*models.AnswerAttachment) *models.Answer {
	return models.NewAnswer(models.AnswerProps{
		AuthorID:    core.ID(d.AuthorID),
		QuestionID:  core.ID(d.QuestionID),
		Content:     d.Content,
		Attachments: models.NewAnswerAttachmentList(links),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, core.ID(d.ID))
}

type questionAttachmentDoc struct {
	ID           string `bson:"_id"`
	QuestionID   string `bson:"question_id"`
	AttachmentID string `bson:"attachment_id"`
}

type answerAttachmentDoc struct {
	ID           string `bson:"_id"`
	AnswerID     string `bson:"answer_id"`
	AttachmentID string `bson:"attachment_id"`
}

type attachmentDoc struct {
	ID    string `bson:"_id"`
	Title string `bson:"title"`
	URL   string `bson:"url"`
}

type commentDoc struct {
	ID         string    `bson:"_id"`
	AuthorID   string    `bson:"author_id"`
	QuestionID string    `bson:"question_id,omitempty"`
	AnswerID   string    `bson:"answer_id,omitempty"`
	Content    string    `bson:"content"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at,omitempty"`
}

func commentFields(c models.Comment) commentDoc {
	return commentDoc{
		ID:        c.ID.String(),
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d commentDoc) comment() models.Comment {
	return models.Comment{
		ID:        core.ID(d.ID),
		AuthorID:  core.ID(d.AuthorID),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type studentDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type notificationDoc struct {
	ID          string     `bson:"_id"`
	RecipientID string     `bson:"recipient_id"`
	Title       string     `bson:"title"`
	Content     string     `bson:"content"`
	ReadAt      *time.Time `bson:"read_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
}

func toNotificationDoc(n *models.Notification) notificationDoc {
	return notificationDoc{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID.String(),
		Title:       n.Title,
		Content:     n.Content,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

func (d notificationDoc) notification() *models.Notification {
	return &models.Notification{
		ID:          core.ID(d.ID),
		RecipientID: core.ID(d.RecipientID),
		Title:       d.Title,
		Content:     d.Content,
		ReadAt:      d.ReadAt,
		CreatedAt:   d.CreatedAt,
	}
}
