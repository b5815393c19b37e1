package models

import (
	"time"

	"forum/core"
)

type AnswerProps struct {
	AuthorID    core.ID
	QuestionID  core.ID
	Content     string
	Attachments *AnswerAttachmentList
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Answer is a reply to a question.
type Answer struct {
	core.AggregateRoot

	id          core.ID
	authorID    core.ID
	questionID  core.ID
	content     string
	attachments *AnswerAttachmentList
	createdAt   time.Time
	updatedAt   time.Time
}

// NewAnswer builds an answer. An empty id means a brand new answer, which
// raises AnswerCreatedEvent; a given id rehydrates a stored one.
func NewAnswer(p AnswerProps, id core.ID) *Answer {
	fresh := id.IsZero()
	if fresh {
		id = core.NewID()
	}
	if p.Attachments == nil {
		p.Attachments = NewAnswerAttachmentList(nil)
	}
	for _, link := range p.Attachments.CurrentItems() {
		if link.AnswerID.IsZero() {
			link.AnswerID = id
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	a := &Answer{
		id:          id,
		authorID:    p.AuthorID,
		questionID:  p.QuestionID,
		content:     p.Content,
		attachments: p.Attachments,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}
	if fresh {
		a.AddDomainEvent(NewAnswerCreatedEvent(a))
	}
	return a
}

func (a *Answer) ID() core.ID                        { return a.id }
func (a *Answer) AuthorID() core.ID                  { return a.authorID }
func (a *Answer) QuestionID() core.ID                { return a.questionID }
func (a *Answer) Content() string                    { return a.content }
func (a *Answer) Attachments() *AnswerAttachmentList { return a.attachments }
func (a *Answer) CreatedAt() time.Time               { return a.createdAt }
func (a *Answer) UpdatedAt() time.Time               { return a.updatedAt }
func (a *Answer) Excerpt() string                    { return excerpt(a.content) }

func (a *Answer) SetContent(content string) {
	a.content = content
	a.touch()
}

func (a *Answer) SetAttachments(list *AnswerAttachmentList) {
	a.attachments = list
	a.touch()
}

func (a *Answer) touch() { a.updatedAt = time.Now().UTC() }
