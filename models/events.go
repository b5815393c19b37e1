package models

import (
	"time"

	"forum/core"
)

const (
	AnswerCreatedEventName            = "answer.created"
	QuestionBestAnswerChosenEventName = "question.best_answer_chosen"
)

type AnswerCreatedEvent struct {
	Answer *Answer
	at     time.Time
}

func NewAnswerCreatedEvent(a *Answer) *AnswerCreatedEvent {
	return &AnswerCreatedEvent{Answer: a, at: time.Now().UTC()}
}

func (e *AnswerCreatedEvent) EventName() string     { return AnswerCreatedEventName }
func (e *AnswerCreatedEvent) OccurredAt() time.Time { return e.at }
func (e *AnswerCreatedEvent) AggregateID() core.ID  { return e.Answer.ID() }

type QuestionBestAnswerChosenEvent struct {
	Question     *Question
	BestAnswerID core.ID
	at           time.Time
}

func NewQuestionBestAnswerChosenEvent(q *Question, bestAnswerID core.ID) *QuestionBestAnswerChosenEvent {
	return &QuestionBestAnswerChosenEvent{Question: q, BestAnswerID: bestAnswerID, at: time.Now().UTC()}
}

func (e *QuestionBestAnswerChosenEvent) EventName() string     { return QuestionBestAnswerChosenEventName }
func (e *QuestionBestAnswerChosenEvent) OccurredAt() time.Time { return e.at }
func (e *QuestionBestAnswerChosenEvent) AggregateID() core.ID  { return e.Question.ID() }
