package models

import "forum/core"

// Attachment is an uploaded file referenced by questions and answers.
type Attachment struct {
	ID    core.ID `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
}

func NewAttachment(title, url string, id core.ID) *Attachment {
	if id.IsZero() {
		id = core.NewID()
	}
	return &Attachment{ID: id, Title: title, URL: url}
}

// QuestionAttachment links an attachment to a question.
type QuestionAttachment struct {
	ID           core.ID
	QuestionID   core.ID
	AttachmentID core.ID
}

func NewQuestionAttachment(questionID, attachmentID, id core.ID) *QuestionAttachment {
	if id.IsZero() {
		id = core.NewID()
	}
	return &QuestionAttachment{ID: id, QuestionID: questionID, AttachmentID: attachmentID}
}

// AnswerAttachment links an attachment to an answer.
type AnswerAttachment struct {
	ID           core.ID
	AnswerID     core.ID
	AttachmentID core.ID
}

func NewAnswerAttachment(answerID, attachmentID, id core.ID) *AnswerAttachment {
	if id.IsZero() {
		id = core.NewID()
	}
	return &AnswerAttachment{ID: id, AnswerID: answerID, AttachmentID: attachmentID}
}

// QuestionAttachmentList is the watched attachment list of a question.
// Two links are the same when they point at the same attachment.
type QuestionAttachmentList struct {
	*core.WatchedList[*QuestionAttachment]
}

func NewQuestionAttachmentList(items []*QuestionAttachment) *QuestionAttachmentList {
	return &QuestionAttachmentList{core.NewWatchedList(items, func(a, b *QuestionAttachment) bool {
		return a.AttachmentID == b.AttachmentID
	})}
}

// AnswerAttachmentList is the watched attachment list of an answer.
type AnswerAttachmentList struct {
	*core.WatchedList[*AnswerAttachment]
}

func NewAnswerAttachmentList(items []*AnswerAttachment) *AnswerAttachmentList {
	return &AnswerAttachmentList{core.NewWatchedList(items, func(a, b *AnswerAttachment) bool {
		return a.AttachmentID == b.AttachmentID
	})}
}
