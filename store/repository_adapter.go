package store

import (
	"forum/events"
	"forum/usecases"
)

// Repositories exposes the Mongo repositories as the ports the use cases run on.
func Repositories(s *Store, d *events.Dispatcher) usecases.Repositories {
	questionAttachments := NewQuestionAttachmentsRepository(s)
	answerAttachments := NewAnswerAttachmentsRepository(s)
	return usecases.Repositories{
		Questions:           NewQuestionsRepository(s, d, questionAttachments),
		QuestionAttachments: questionAttachments,
		Answers:             NewAnswersRepository(s, d, answerAttachments),
		AnswerAttachments:   answerAttachments,
		Attachments:         NewAttachmentsRepository(s),
		QuestionComments:    NewQuestionCommentsRepository(s),
		AnswerComments:      NewAnswerCommentsRepository(s),
		Students:            NewStudentsRepository(s),
		Notifications:       NewNotificationsRepository(s),
	}
}
