package usecases

import (
	"context"
	"fmt"
	"strings"

	"forum/core"
	"forum/logger"
	"forum/metrics"
	"forum/models"
)

type AnswerQuestionRequest struct {
	AuthorID      string
	QuestionID    string
	Content       string
	AttachmentIDs []string
}

type AnswerQuestionResponse struct {
	Answer *models.Answer
}

// AnswerQuestion stores a new answer; its creation event is dispatched by
// the answers repository.
type AnswerQuestion struct {
	questions QuestionsRepository
	answers   AnswersRepository
}

func NewAnswerQuestion(questions QuestionsRepository, answers AnswersRepository) *AnswerQuestion {
	return &AnswerQuestion{questions: questions, answers: answers}
}

func (uc *AnswerQuestion) Execute(ctx context.Context, req AnswerQuestionRequest) (AnswerQuestionResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return AnswerQuestionResponse{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	q, err := uc.questions.FindByID(ctx, core.ID(req.QuestionID))
	if err != nil {
		return AnswerQuestionResponse{}, fmt.Errorf("find question: %w", err)
	}
	if q == nil {
		return AnswerQuestionResponse{}, core.ErrResourceNotFound
	}
	a := models.NewAnswer(models.AnswerProps{
		AuthorID:    core.ID(req.AuthorID),
		QuestionID:  q.ID(),
		Content:     req.Content,
		Attachments: models.NewAnswerAttachmentList(answerLinks("", req.AttachmentIDs)),
	}, "")
	if err := uc.answers.Create(ctx, a); err != nil {
		return AnswerQuestionResponse{}, fmt.Errorf("create answer: %w", err)
	}
	metrics.IncAnswersCreated()
	logger.Info("answer created", logger.FieldKV("answer_id", a.ID().String()), logger.FieldKV("question_id", req.QuestionID))
	return AnswerQuestionResponse{Answer: a}, nil
}

type EditAnswerRequest struct {
	AuthorID      string
	AnswerID      string
	Content       string
	AttachmentIDs []string
}

type EditAnswerResponse struct {
	Answer *models.Answer
}

type EditAnswer struct {
	answers           AnswersRepository
	answerAttachments AnswerAttachmentsRepository
}

func NewEditAnswer(answers AnswersRepository, answerAttachments AnswerAttachmentsRepository) *EditAnswer {
	return &EditAnswer{answers: answers, answerAttachments: answerAttachments}
}

func (uc *EditAnswer) Execute(ctx context.Context, req EditAnswerRequest) (EditAnswerResponse, error) {
	a, err := uc.answers.FindByID(ctx, core.ID(req.AnswerID))
	if err != nil {
		return EditAnswerResponse{}, fmt.Errorf("find answer: %w", err)
	}
	if a == nil {
		return EditAnswerResponse{}, core.ErrResourceNotFound
	}
	if a.AuthorID() != core.ID(req.AuthorID) {
		return EditAnswerResponse{}, core.ErrNotAllowed
	}

	stored, err := uc.answerAttachments.FindManyByAnswerID(ctx, a.ID())
	if err != nil {
		return EditAnswerResponse{}, fmt.Errorf("find answer attachments: %w", err)
	}
	list := models.NewAnswerAttachmentList(stored)
	list.Update(answerLinks(a.ID(), req.AttachmentIDs))

	a.SetAttachments(list)
	a.SetContent(req.Content)

	if err := uc.answers.Save(ctx, a); err != nil {
		return EditAnswerResponse{}, fmt.Errorf("save answer: %w", err)
	}
	return EditAnswerResponse{Answer: a}, nil
}

type DeleteAnswerRequest struct {
	AuthorID string
	AnswerID string
}

type DeleteAnswer struct {
	answers AnswersRepository
}

func NewDeleteAnswer(answers AnswersRepository) *DeleteAnswer {
	return &DeleteAnswer{answers: answers}
}

func (uc *DeleteAnswer) Execute(ctx context.Context, req DeleteAnswerRequest) error {
	a, err := uc.answers.FindByID(ctx, core.ID(req.AnswerID))
	if err != nil {
		return fmt.Errorf("find answer: %w", err)
	}
	if a == nil {
		return core.ErrResourceNotFound
	}
	if a.AuthorID() != core.ID(req.AuthorID) {
		return core.ErrNotAllowed
	}
	if err := uc.answers.Delete(ctx, a); err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	return nil
}

type FetchQuestionAnswersRequest struct {
	QuestionID string
	Page       int
}

type FetchQuestionAnswersResponse struct {
	Answers []*models.Answer
}

type FetchQuestionAnswers struct {
	answers AnswersRepository
}

func NewFetchQuestionAnswers(answers AnswersRepository) *FetchQuestionAnswers {
	return &FetchQuestionAnswers{answers: answers}
}

func (uc *FetchQuestionAnswers) Execute(ctx context.Context, req FetchQuestionAnswersRequest) (FetchQuestionAnswersResponse, error) {
	as, err := uc.answers.FindManyByQuestionID(ctx, core.ID(req.QuestionID), req.Page)
	if err != nil {
		return FetchQuestionAnswersResponse{}, fmt.Errorf("fetch answers: %w", err)
	}
	return FetchQuestionAnswersResponse{Answers: as}, nil
}

func answerLinks(answerID core.ID, attachmentIDs []string) []*models.AnswerAttachment {
	links := make([]*models.AnswerAttachment, 0, len(attachmentIDs))
	for _, id := range attachmentIDs {
		links = append(links, models.NewAnswerAttachment(answerID, core.ID(id), ""))
	}
	return links
}
