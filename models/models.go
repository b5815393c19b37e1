package models

import (
	"time"

	"forum/core"
)

// Comment is the state shared by question and answer comments.
type Comment struct {
	ID        core.ID   `json:"id"`
	AuthorID  core.ID   `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func newComment(authorID core.ID, content string, id core.ID) Comment {
	if id.IsZero() {
		id = core.NewID()
	}
	return Comment{ID: id, AuthorID: authorID, Content: content, CreatedAt: time.Now().UTC()}
}

type QuestionComment struct {
	Comment
	QuestionID core.ID `json:"question_id"`
}

func NewQuestionComment(authorID, questionID core.ID, content string, id core.ID) *QuestionComment {
	return &QuestionComment{Comment: newComment(authorID, content, id), QuestionID: questionID}
}

type AnswerComment struct {
	Comment
	AnswerID core.ID `json:"answer_id"`
}

func NewAnswerComment(authorID, answerID core.ID, content string, id core.ID) *AnswerComment {
	return &AnswerComment{Comment: newComment(authorID, content, id), AnswerID: answerID}
}

// Student is a forum participant, known by the subject of their token.
type Student struct {
	ID   core.ID `json:"id"`
	Name string  `json:"name"`
}

// QuestionDetails is the read model of a question with its author and
// attachments resolved.
type QuestionDetails struct {
	QuestionID   core.ID
	AuthorID     core.ID
	AuthorName   string
	Title        string
	Slug         Slug
	Content      string
	BestAnswerID core.ID
	Attachments  []*Attachment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Notification is a message addressed to a single student.
type Notification struct {
	ID          core.ID    `json:"id"`
	RecipientID core.ID    `json:"recipient_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewNotification(recipientID core.ID, title, content string, id core.ID) *Notification {
	if id.IsZero() {
		id = core.NewID()
	}
	return &Notification{ID: id, RecipientID: recipientID, Title: title, Content: content, CreatedAt: time.Now().UTC()}
}

func (n *Notification) Read() {
	now := time.Now().UTC()
	n.ReadAt = &now
}
