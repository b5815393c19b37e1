// Package subscribers turns forum domain events into student notifications.
package subscribers

import (
	"context"
	"fmt"

	"forum/core"
	"forum/events"
	"forum/logger"
	"forum/models"
	"forum/usecases"
)

// OnQuestionBestAnswerChosen tells the author of an answer that it was
// picked as the best one.
type OnQuestionBestAnswerChosen struct {
	answers usecases.AnswersRepository
	sender  usecases.NotificationSender
}

func NewOnQuestionBestAnswerChosen(answers usecases.AnswersRepository, sender usecases.NotificationSender) *OnQuestionBestAnswerChosen {
	return &OnQuestionBestAnswerChosen{answers: answers, sender: sender}
}

func (s *OnQuestionBestAnswerChosen) Subscribe(d *events.Dispatcher) {
	d.Register(models.QuestionBestAnswerChosenEventName, s.Handle)
}

func (s *OnQuestionBestAnswerChosen) Handle(ctx context.Context, e core.DomainEvent) error {
	ev, ok := e.(*models.QuestionBestAnswerChosenEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}
	a, err := s.answers.FindByID(ctx, ev.BestAnswerID)
	if err != nil {
		return fmt.Errorf("find best answer: %w", err)
	}
	if a == nil {
		logger.Warn("best answer vanished before notifying", logger.FieldKV("answer_id", ev.BestAnswerID.String()))
		return nil
	}
	_, err = s.sender.Execute(ctx, usecases.SendNotificationRequest{
		RecipientID: a.AuthorID().String(),
		Title:       "Your answer was chosen!",
		Content:     fmt.Sprintf("The answer you sent to \"%s\" was chosen by the author!", truncate(ev.Question.Title(), 20)),
	})
	return err
}

// OnAnswerCreated tells the author of a question that it got a new answer.
type OnAnswerCreated struct {
	questions usecases.QuestionsRepository
	sender    usecases.NotificationSender
}

func NewOnAnswerCreated(questions usecases.QuestionsRepository, sender usecases.NotificationSender) *OnAnswerCreated {
	return &OnAnswerCreated{questions: questions, sender: sender}
}

func (s *OnAnswerCreated) Subscribe(d *events.Dispatcher) {
	d.Register(models.AnswerCreatedEventName, s.Handle)
}

func (s *OnAnswerCreated) Handle(ctx context.Context, e core.DomainEvent) error {
	ev, ok := e.(*models.AnswerCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}
	q, err := s.questions.FindByID(ctx, ev.Answer.QuestionID())
	if err != nil {
		return fmt.Errorf("find answered question: %w", err)
	}
	if q == nil {
		return nil
	}
	_, err = s.sender.Execute(ctx, usecases.SendNotificationRequest{
		RecipientID: q.AuthorID().String(),
		Title:       fmt.Sprintf("New answer on \"%s\"", truncate(q.Title(), 40)),
		Content:     ev.Answer.Excerpt(),
	})
	return err
}

// truncate keeps the first n runes of s and always appends "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
