package usecases

import (
	"context"
	"fmt"
	"strings"

	"forum/core"
	"forum/models"
)

type CommentOnQuestionRequest struct {
	AuthorID   string
	QuestionID string
	Content    string
}

type CommentOnQuestionResponse struct {
	Comment *models.QuestionComment
}

type CommentOnQuestion struct {
	questions QuestionsRepository
	comments  QuestionCommentsRepository
}

func NewCommentOnQuestion(questions QuestionsRepository, comments QuestionCommentsRepository) *CommentOnQuestion {
	return &CommentOnQuestion{questions: questions, comments: comments}
}

func (uc *CommentOnQuestion) Execute(ctx context.Context, req CommentOnQuestionRequest) (CommentOnQuestionResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return CommentOnQuestionResponse{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	q, err := uc.questions.FindByID(ctx, core.ID(req.QuestionID))
	if err != nil {
		return CommentOnQuestionResponse{}, fmt.Errorf("find question: %w", err)
	}
	if q == nil {
		return CommentOnQuestionResponse{}, core.ErrResourceNotFound
	}
	c := models.NewQuestionComment(core.ID(req.AuthorID), q.ID(), req.Content, "")
	if err := uc.comments.Create(ctx, c); err != nil {
		return CommentOnQuestionResponse{}, fmt.Errorf("create question comment: %w", err)
	}
	return CommentOnQuestionResponse{Comment: c}, nil
}

type CommentOnAnswerRequest struct {
	AuthorID string
	AnswerID string
	Content  string
}

type CommentOnAnswerResponse struct {
	Comment *models.AnswerComment
}

type CommentOnAnswer struct {
	answers  AnswersRepository
	comments AnswerCommentsRepository
}

func NewCommentOnAnswer(answers AnswersRepository, comments AnswerCommentsRepository) *CommentOnAnswer {
	return &CommentOnAnswer{answers: answers, comments: comments}
}

func (uc *CommentOnAnswer) Execute(ctx context.Context, req CommentOnAnswerRequest) (CommentOnAnswerResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return CommentOnAnswerResponse{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	a, err := uc.answers.FindByID(ctx, core.ID(req.AnswerID))
	if err != nil {
		return CommentOnAnswerResponse{}, fmt.Errorf("find answer: %w", err)
	}
	if a == nil {
		return CommentOnAnswerResponse{}, core.ErrResourceNotFound
	}
	c := models.NewAnswerComment(core.ID(req.AuthorID), a.ID(), req.Content, "")
	if err := uc.comments.Create(ctx, c); err != nil {
		return CommentOnAnswerResponse{}, fmt.Errorf("create answer comment: %w", err)
	}
	return CommentOnAnswerResponse{Comment: c}, nil
}

type DeleteCommentRequest struct {
	AuthorID  string
	CommentID string
}

type DeleteQuestionComment struct {
	comments QuestionCommentsRepository
}

func NewDeleteQuestionComment(comments QuestionCommentsRepository) *DeleteQuestionComment {
	return &DeleteQuestionComment{comments: comments}
}

func (uc *DeleteQuestionComment) Execute(ctx context.Context, req DeleteCommentRequest) error {
	c, err := uc.comments.FindByID(ctx, core.ID(req.CommentID))
	if err != nil {
		return fmt.Errorf("find question comment: %w", err)
	}
	if c == nil {
		return core.ErrResourceNotFound
	}
	if c.AuthorID != core.ID(req.AuthorID) {
		return core.ErrNotAllowed
	}
	return uc.comments.Delete(ctx, c)
}

type DeleteAnswerComment struct {
	comments AnswerCommentsRepository
}

func NewDeleteAnswerComment(comments AnswerCommentsRepository) *DeleteAnswerComment {
	return &DeleteAnswerComment{comments: comments}
}

func (uc *DeleteAnswerComment) Execute(ctx context.Context, req DeleteCommentRequest) error {
	c, err := uc.comments.FindByID(ctx, core.ID(req.CommentID))
	if err != nil {
		return fmt.Errorf("find answer comment: %w", err)
	}
	if c == nil {
		return core.ErrResourceNotFound
	}
	if c.AuthorID != core.ID(req.AuthorID) {
		return core.ErrNotAllowed
	}
	return uc.comments.Delete(ctx, c)
}

type FetchQuestionCommentsRequest struct {
	QuestionID string
	Page       int
}

type FetchQuestionComments struct {
	comments QuestionCommentsRepository
}

func NewFetchQuestionComments(comments QuestionCommentsRepository) *FetchQuestionComments {
	return &FetchQuestionComments{comments: comments}
}

func (uc *FetchQuestionComments) Execute(ctx context.Context, req FetchQuestionCommentsRequest) ([]*models.QuestionComment, error) {
	cs, err := uc.comments.FindManyByQuestionID(ctx, core.ID(req.QuestionID), req.Page)
	if err != nil {
		return nil, fmt.Errorf("fetch question comments: %w", err)
	}
	return cs, nil
}

type FetchAnswerCommentsRequest struct {
	AnswerID string
	Page     int
}

type FetchAnswerComments struct {
	comments AnswerCommentsRepository
}

func NewFetchAnswerComments(comments AnswerCommentsRepository) *FetchAnswerComments {
	return &FetchAnswerComments{comments: comments}
}

func (uc *FetchAnswerComments) Execute(ctx context.Context, req FetchAnswerCommentsRequest) ([]*models.AnswerComment, error) {
	cs, err := uc.comments.FindManyByAnswerID(ctx, core.ID(req.AnswerID), req.Page)
	if err != nil {
		return nil, fmt.Errorf("fetch answer comments: %w", err)
	}
	return cs, nil
}
