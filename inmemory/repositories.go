package inmemory

import (
	"forum/events"
	"forum/usecases"
)

// Repositories builds a full set of list-backed repositories sharing d.
func Repositories(d *events.Dispatcher) usecases.Repositories {
	questionAttachments := NewQuestionAttachmentsRepository()
	answerAttachments := NewAnswerAttachmentsRepository()
	attachments := NewAttachmentsRepository()
	students := NewStudentsRepository()
	return usecases.Repositories{
		Questions:           NewQuestionsRepository(d, questionAttachments, attachments, students),
		QuestionAttachments: questionAttachments,
		Answers:             NewAnswersRepository(d, answerAttachments),
		AnswerAttachments:   answerAttachments,
		Attachments:         attachments,
		QuestionComments:    NewQuestionCommentsRepository(),
		AnswerComments:      NewAnswerCommentsRepository(),
		Students:            students,
		Notifications:       NewNotificationsRepository(),
	}
}
