package models

import (
	"strings"
	"time"

	"forum/core"
)

const (
	excerptLength = 120
	newWindow     = 3 * 24 * time.Hour
)

// QuestionProps carries the state used to build or rehydrate a Question.
// Zero values get defaults: a slug derived from the title, an empty
// attachment list and a CreatedAt of now. Attachment links without a
// question id are stamped with the question's id.
type QuestionProps struct {
	AuthorID     core.ID
	BestAnswerID core.ID
	Title        string
	Content      string
	Slug         Slug
	Attachments  *QuestionAttachmentList
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Question is the forum aggregate a student asks.
type Question struct {
	core.AggregateRoot

	id           core.ID
	authorID     core.ID
	bestAnswerID core.ID
	title        string
	content      string
	slug         Slug
	attachments  *QuestionAttachmentList
	createdAt    time.Time
	updatedAt    time.Time
}

// NewQuestion builds a question. An empty id generates a new identity.
func NewQuestion(p QuestionProps, id core.ID) *Question {
	if id.IsZero() {
		id = core.NewID()
	}
	if p.Slug.IsZero() {
		p.Slug = SlugFromText(p.Title)
	}
	if p.Attachments == nil {
		p.Attachments = NewQuestionAttachmentList(nil)
	}
	for _, link := range p.Attachments.CurrentItems() {
		if link.QuestionID.IsZero() {
			link.QuestionID = id
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return &Question{
		id:           id,
		authorID:     p.AuthorID,
		bestAnswerID: p.BestAnswerID,
		title:        p.Title,
		content:      p.Content,
		slug:         p.Slug,
		attachments:  p.Attachments,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}
}

func (q *Question) ID() core.ID                          { return q.id }
func (q *Question) AuthorID() core.ID                    { return q.authorID }
func (q *Question) BestAnswerID() core.ID                { return q.bestAnswerID }
func (q *Question) Title() string                        { return q.title }
func (q *Question) Content() string                      { return q.content }
func (q *Question) Slug() Slug                           { return q.slug }
func (q *Question) Attachments() *QuestionAttachmentList { return q.attachments }
func (q *Question) CreatedAt() time.Time                 { return q.createdAt }
func (q *Question) UpdatedAt() time.Time                 { return q.updatedAt }

// IsNew reports whether the question was asked in the last three days.
func (q *Question) IsNew() bool { return time.Since(q.createdAt) <= newWindow }

func (q *Question) Excerpt() string { return excerpt(q.content) }

// SetTitle also regenerates the slug.
func (q *Question) SetTitle(title string) {
	q.title = title
	q.slug = SlugFromText(title)
	q.touch()
}

func (q *Question) SetContent(content string) {
	q.content = content
	q.touch()
}

func (q *Question) SetAttachments(list *QuestionAttachmentList) {
	q.attachments = list
	q.touch()
}

// SetBestAnswerID raises QuestionBestAnswerChosenEvent when the best answer
// actually changes.
func (q *Question) SetBestAnswerID(id core.ID) {
	if !id.IsZero() && id != q.bestAnswerID {
		q.AddDomainEvent(NewQuestionBestAnswerChosenEvent(q, id))
	}
	q.bestAnswerID = id
	q.touch()
}

func (q *Question) touch() { q.updatedAt = time.Now().UTC() }

func excerpt(content string) string {
	r := []rune(content)
	if len(r) > excerptLength {
		r = r[:excerptLength]
	}
	return strings.TrimRight(string(r), " \t\r\n") + "..."
}
