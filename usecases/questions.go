package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forum/core"
	"forum/logger"
	"forum/metrics"
	"forum/models"
)

// ErrInvalidInput is wrapped by use cases rejecting malformed requests.
var ErrInvalidInput = errors.New("invalid input")

type CreateQuestionRequest struct {
	AuthorID      string
	Title         string
	Content       string
	AttachmentIDs []string
}

type CreateQuestionResponse struct {
	Question *models.Question
}

type CreateQuestion struct {
	questions QuestionsRepository
}

func NewCreateQuestion(questions QuestionsRepository) *CreateQuestion {
	return &CreateQuestion{questions: questions}
}

func (uc *CreateQuestion) Execute(ctx context.Context, req CreateQuestionRequest) (CreateQuestionResponse, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return CreateQuestionResponse{}, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	q := models.NewQuestion(models.QuestionProps{
		AuthorID:    core.ID(req.AuthorID),
		Title:       req.Title,
		Content:     req.Content,
		Attachments: models.NewQuestionAttachmentList(questionLinks("", req.AttachmentIDs)),
	}, "")
	if err := uc.questions.Create(ctx, q); err != nil {
		return CreateQuestionResponse{}, fmt.Errorf("create question: %w", err)
	}
	metrics.IncQuestionsCreated()
	logger.Info("question created", logger.FieldKV("question_id", q.ID().String()), logger.FieldKV("author_id", req.AuthorID))
	return CreateQuestionResponse{Question: q}, nil
}

type GetQuestionBySlugRequest struct {
	Slug string
}

type GetQuestionBySlugResponse struct {
	Question *models.Question
}

type GetQuestionBySlug struct {
	questions QuestionsRepository
}

func NewGetQuestionBySlug(questions QuestionsRepository) *GetQuestionBySlug {
	return &GetQuestionBySlug{questions: questions}
}

func (uc *GetQuestionBySlug) Execute(ctx context.Context, req GetQuestionBySlugRequest) (GetQuestionBySlugResponse, error) {
	q, err := uc.questions.FindBySlug(ctx, req.Slug)
	if err != nil {
		return GetQuestionBySlugResponse{}, fmt.Errorf("find question: %w", err)
	}
	if q == nil {
		return GetQuestionBySlugResponse{}, core.ErrResourceNotFound
	}
	return GetQuestionBySlugResponse{Question: q}, nil
}

type GetQuestionDetailsRequest struct {
	Slug string
}

type GetQuestionDetailsResponse struct {
	Details *models.QuestionDetails
}

type GetQuestionDetails struct {
	questions QuestionsRepository
}

func NewGetQuestionDetails(questions QuestionsRepository) *GetQuestionDetails {
	return &GetQuestionDetails{questions: questions}
}

func (uc *GetQuestionDetails) Execute(ctx context.Context, req GetQuestionDetailsRequest) (GetQuestionDetailsResponse, error) {
	d, err := uc.questions.FindDetailsBySlug(ctx, req.Slug)
	if err != nil {
		return GetQuestionDetailsResponse{}, fmt.Errorf("find question details: %w", err)
	}
	if d == nil {
		return GetQuestionDetailsResponse{}, core.ErrResourceNotFound
	}
	return GetQuestionDetailsResponse{Details: d}, nil
}

type FetchRecentQuestionsRequest struct {
	Page int
}

type FetchRecentQuestionsResponse struct {
	Questions []*models.Question
}

type FetchRecentQuestions struct {
	questions QuestionsRepository
}

func NewFetchRecentQuestions(questions QuestionsRepository) *FetchRecentQuestions {
	return &FetchRecentQuestions{questions: questions}
}

func (uc *FetchRecentQuestions) Execute(ctx context.Context, req FetchRecentQuestionsRequest) (FetchRecentQuestionsResponse, error) {
	qs, err := uc.questions.FindManyRecent(ctx, req.Page)
	if err != nil {
		return FetchRecentQuestionsResponse{}, fmt.Errorf("fetch recent questions: %w", err)
	}
	return FetchRecentQuestionsResponse{Questions: qs}, nil
}

type EditQuestionRequest struct {
	AuthorID      string
	QuestionID    string
	Title         string
	Content       string
	AttachmentIDs []string
}

type EditQuestionResponse struct {
	Question *models.Question
}

// EditQuestion rewrites a question and reconciles its attachments with the
// requested list: links kept stay untouched, missing ones are deleted and
// new ones created when the question is saved.
type EditQuestion struct {
	questions           QuestionsRepository
	questionAttachments QuestionAttachmentsRepository
}

func NewEditQuestion(questions QuestionsRepository, questionAttachments QuestionAttachmentsRepository) *EditQuestion {
	return &EditQuestion{questions: questions, questionAttachments: questionAttachments}
}

func (uc *EditQuestion) Execute(ctx context.Context, req EditQuestionRequest) (EditQuestionResponse, error) {
	q, err := uc.questions.FindByID(ctx, core.ID(req.QuestionID))
	if err != nil {
		return EditQuestionResponse{}, fmt.Errorf("find question: %w", err)
	}
	if q == nil {
		return EditQuestionResponse{}, core.ErrResourceNotFound
	}
	if q.AuthorID() != core.ID(req.AuthorID) {
		return EditQuestionResponse{}, core.ErrNotAllowed
	}

	stored, err := uc.questionAttachments.FindManyByQuestionID(ctx, q.ID())
	if err != nil {
		return EditQuestionResponse{}, fmt.Errorf("find question attachments: %w", err)
	}
	list := models.NewQuestionAttachmentList(stored)
	list.Update(questionLinks(q.ID(), req.AttachmentIDs))

	q.SetAttachments(list)
	q.SetTitle(req.Title)
	q.SetContent(req.Content)

	if err := uc.questions.Save(ctx, q); err != nil {
		return EditQuestionResponse{}, fmt.Errorf("save question: %w", err)
	}
	return EditQuestionResponse{Question: q}, nil
}

type DeleteQuestionRequest struct {
	QuestionID string
	AuthorID   string
}

type DeleteQuestion struct {
	questions QuestionsRepository
}

func NewDeleteQuestion(questions QuestionsRepository) *DeleteQuestion {
	return &DeleteQuestion{questions: questions}
}

func (uc *DeleteQuestion) Execute(ctx context.Context, req DeleteQuestionRequest) error {
	q, err := uc.questions.FindByID(ctx, core.ID(req.QuestionID))
	if err != nil {
		return fmt.Errorf("find question: %w", err)
	}
	if q == nil {
		return core.ErrResourceNotFound
	}
	if q.AuthorID() != core.ID(req.AuthorID) {
		return core.ErrNotAllowed
	}
	if err := uc.questions.Delete(ctx, q); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	logger.Info("question deleted", logger.FieldKV("question_id", req.QuestionID))
	return nil
}

type ChooseQuestionBestAnswerRequest struct {
	AuthorID string
	AnswerID string
}

type ChooseQuestionBestAnswerResponse struct {
	Question *models.Question
}

// ChooseQuestionBestAnswer lets the author of a question pick one of its
// answers. Saving the question dispatches QuestionBestAnswerChosenEvent.
type ChooseQuestionBestAnswer struct {
	questions QuestionsRepository
	answers   AnswersRepository
}

func NewChooseQuestionBestAnswer(questions QuestionsRepository, answers AnswersRepository) *ChooseQuestionBestAnswer {
	return &ChooseQuestionBestAnswer{questions: questions, answers: answers}
}

func (uc *ChooseQuestionBestAnswer) Execute(ctx context.Context, req ChooseQuestionBestAnswerRequest) (ChooseQuestionBestAnswerResponse, error) {
	a, err := uc.answers.FindByID(ctx, core.ID(req.AnswerID))
	if err != nil {
		return ChooseQuestionBestAnswerResponse{}, fmt.Errorf("find answer: %w", err)
	}
	if a == nil {
		return ChooseQuestionBestAnswerResponse{}, core.ErrResourceNotFound
	}
	q, err := uc.questions.FindByID(ctx, a.QuestionID())
	if err != nil {
		return ChooseQuestionBestAnswerResponse{}, fmt.Errorf("find question: %w", err)
	}
	if q == nil {
		return ChooseQuestionBestAnswerResponse{}, core.ErrResourceNotFound
	}
	if q.AuthorID() != core.ID(req.AuthorID) {
		return ChooseQuestionBestAnswerResponse{}, core.ErrNotAllowed
	}
	q.SetBestAnswerID(a.ID())
	if err := uc.questions.Save(ctx, q); err != nil {
		return ChooseQuestionBestAnswerResponse{}, fmt.Errorf("save question: %w", err)
	}
	metrics.IncBestAnswersChosen()
	return ChooseQuestionBestAnswerResponse{Question: q}, nil
}

// questionLinks builds one link per attachment id. An empty questionID is
// stamped by NewQuestion.
func questionLinks(questionID core.ID, attachmentIDs []string) []*models.QuestionAttachment {
	links := make([]*models.QuestionAttachment, 0, len(attachmentIDs))
	for _, id := range attachmentIDs {
		links = append(links, models.NewQuestionAttachment(questionID, core.ID(id), ""))
	}
	return links
}
