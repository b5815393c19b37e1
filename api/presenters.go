package api

import (
	"time"

	"forum/models"
)

type questionView struct {
	ID            string     `json:"id"`
	AuthorID      string     `json:"author_id"`
	BestAnswerID  string     `json:"best_answer_id,omitempty"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	IsNew         bool       `json:"is_new"`
	AttachmentIDs []string   `json:"attachment_ids"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func presentQuestion(q *models.Question) questionView {
	v := questionView{
		ID:            q.ID().String(),
		AuthorID:      q.AuthorID().String(),
		BestAnswerID:  q.BestAnswerID().String(),
		Title:         q.Title(),
		Slug:          q.Slug().Value(),
		Content:       q.Content(),
		Excerpt:       q.Excerpt(),
		IsNew:         q.IsNew(),
		AttachmentIDs: []string{},
		CreatedAt:     q.CreatedAt(),
		UpdatedAt:     optionalTime(q.UpdatedAt()),
	}
	for _, l := range q.Attachments().CurrentItems() {
		v.AttachmentIDs = append(v.AttachmentIDs, l.AttachmentID.String())
	}
	return v
}

func presentQuestions(qs []*models.Question) []questionView {
	out := make([]questionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, presentQuestion(q))
	}
	return out
}

type answerView struct {
	ID            string     `json:"id"`
	AuthorID      string     `json:"author_id"`
	QuestionID    string     `json:"question_id"`
	Content       string     `json:"content"`
	AttachmentIDs []string   `json:"attachment_ids"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func presentAnswer(a *models.Answer) answerView {
	v := answerView{
		ID:            a.ID().String(),
		AuthorID:      a.AuthorID().String(),
		QuestionID:    a.QuestionID().String(),
		Content:       a.Content(),
		AttachmentIDs: []string{},
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     optionalTime(a.UpdatedAt()),
	}
	for _, l := range a.Attachments().CurrentItems() {
		v.AttachmentIDs = append(v.AttachmentIDs, l.AttachmentID.String())
	}
	return v
}

func presentAnswers(as []*models.Answer) []answerView {
	out := make([]answerView, 0, len(as))
	for _, a := range as {
		out = append(out, presentAnswer(a))
	}
	return out
}

type detailsView struct {
	ID           string               `json:"id"`
	AuthorID     string               `json:"author_id"`
	AuthorName   string               `json:"author_name"`
	BestAnswerID string               `json:"best_answer_id,omitempty"`
	Title        string               `json:"title"`
	Slug         string               `json:"slug"`
	Content      string               `json:"content"`
	Attachments  []*models.Attachment `json:"attachments"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    *time.Time           `json:"updated_at,omitempty"`
}

func presentDetails(d *models.QuestionDetails) detailsView {
	v := detailsView{
		ID:           d.QuestionID.String(),
		AuthorID:     d.AuthorID.String(),
		AuthorName:   d.AuthorName,
		BestAnswerID: d.BestAnswerID.String(),
		Title:        d.Title,
		Slug:         d.Slug.Value(),
		Content:      d.Content,
		Attachments:  d.Attachments,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    optionalTime(d.UpdatedAt),
	}
	if v.Attachments == nil {
		v.Attachments = []*models.Attachment{}
	}
	return v
}

// wsEvent is the frame pushed to websocket clients.
type wsEvent struct {
	Type         string              `json:"type"`
	Notification models.Notification `json:"notification"`
}

func notificationEvent(n models.Notification) wsEvent {
	return wsEvent{Type: "notification", Notification: n}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
