// Package fixtures builds domain objects filled with random data for tests.
// Zero-valued fields of the given props are randomized; an empty id
// generates one.
package fixtures

import (
	"fmt"

	"github.com/Pallinder/go-randomdata"

	"forum/core"
	"forum/models"
)

func MakeQuestion(p models.QuestionProps, id core.ID) *models.Question {
	if p.AuthorID.IsZero() {
		p.AuthorID = core.NewID()
	}
	if p.Title == "" {
		p.Title = randomTitle()
	}
	if p.Content == "" {
		p.Content = randomdata.Paragraph()
	}
	return models.NewQuestion(p, id)
}

// MakeAnswer builds a stored-looking answer: it never carries a pending
// AnswerCreatedEvent, even when id is empty.
func MakeAnswer(p models.AnswerProps, id core.ID) *models.Answer {
	if p.AuthorID.IsZero() {
		p.AuthorID = core.NewID()
	}
	if p.QuestionID.IsZero() {
		p.QuestionID = core.NewID()
	}
	if p.Content == "" {
		p.Content = randomdata.Paragraph()
	}
	if id.IsZero() {
		id = core.NewID()
	}
	return models.NewAnswer(p, id)
}

func MakeAttachment(id core.ID) *models.Attachment {
	name := randomdata.SillyName()
	return models.NewAttachment(name, fmt.Sprintf("https://%s/%s.pdf", randomdata.IpV4Address(), name), id)
}

func MakeQuestionAttachment(questionID, attachmentID core.ID) *models.QuestionAttachment {
	if questionID.IsZero() {
		questionID = core.NewID()
	}
	if attachmentID.IsZero() {
		attachmentID = core.NewID()
	}
	return models.NewQuestionAttachment(questionID, attachmentID, "")
}

func MakeAnswerAttachment(answerID, attachmentID core.ID) *models.AnswerAttachment {
	if answerID.IsZero() {
		answerID = core.NewID()
	}
	if attachmentID.IsZero() {
		attachmentID = core.NewID()
	}
	return models.NewAnswerAttachment(answerID, attachmentID, "")
}

func MakeQuestionComment(authorID, questionID core.ID) *models.QuestionComment {
	if authorID.IsZero() {
		authorID = core.NewID()
	}
	if questionID.IsZero() {
		questionID = core.NewID()
	}
	return models.NewQuestionComment(authorID, questionID, randomdata.Paragraph(), "")
}

func MakeAnswerComment(authorID, answerID core.ID) *models.AnswerComment {
	if authorID.IsZero() {
		authorID = core.NewID()
	}
	if answerID.IsZero() {
		answerID = core.NewID()
	}
	return models.NewAnswerComment(authorID, answerID, randomdata.Paragraph(), "")
}

func MakeNotification(recipientID core.ID) *models.Notification {
	if recipientID.IsZero() {
		recipientID = core.NewID()
	}
	return models.NewNotification(recipientID, randomTitle(), randomdata.Paragraph(), "")
}

func MakeStudent(id core.ID) *models.Student {
	if id.IsZero() {
		id = core.NewID()
	}
	return &models.Student{ID: id, Name: randomdata.FullName(randomdata.RandomGender)}
}

func randomTitle() string {
	return fmt.Sprintf("%s %s %s", randomdata.Adjective(), randomdata.Noun(), randomdata.SillyName())
}
