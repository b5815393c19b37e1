package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"forum/core"
	"forum/logger"
	"forum/usecases"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

type questionBody struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachment_ids"`
}

type answerBody struct {
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachment_ids"`
}

type commentBody struct {
	Content string `json:"content"`
}

type attachmentBody struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// decode validates the body against schema and unmarshals it into dst.
func (s *Server) decode(r *http.Request, schema string, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if s.validator != nil {
		if err := s.validator.Validate(schema, body); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, core.ErrResourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecases.ErrInvalidInput), errors.Is(err, errInvalidBody):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func page(r *http.Request) (int, error) {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer", errInvalidBody)
	}
	return n, nil
}

func subject(r *http.Request) string { return identityFrom(r.Context()).Subject }

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	var b questionBody
	if err := s.decode(r, "question", &b); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.CreateQuestion.Execute(r.Context(), usecases.CreateQuestionRequest{
		AuthorID:      subject(r),
		Title:         b.Title,
		Content:       b.Content,
		AttachmentIDs: b.AttachmentIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentQuestion(res.Question))
}

func (s *Server) fetchRecentQuestions(w http.ResponseWriter, r *http.Request) {
	p, err := page(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.FetchRecentQuestions.Execute(r.Context(), usecases.FetchRecentQuestionsRequest{Page: p})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": presentQuestions(res.Questions)})
}

func (s *Server) getQuestionBySlug(w http.ResponseWriter, r *http.Request) {
	res, err := s.forum.GetQuestionBySlug.Execute(r.Context(), usecases.GetQuestionBySlugRequest{Slug: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"question": presentQuestion(res.Question)})
}

func (s *Server) getQuestionDetails(w http.ResponseWriter, r *http.Request) {
	res, err := s.forum.GetQuestionDetails.Execute(r.Context(), usecases.GetQuestionDetailsRequest{Slug: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"question": presentDetails(res.Details)})
}

func (s *Server) editQuestion(w http.ResponseWriter, r *http.Request) {
	var b questionBody
	if err := s.decode(r, "question", &b); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.EditQuestion.Execute(r.Context(), usecases.EditQuestionRequest{
		AuthorID:      subject(r),
		QuestionID:    chi.URLParam(r, "id"),
		Title:         b.Title,
		Content:       b.Content,
		AttachmentIDs: b.AttachmentIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentQuestion(res.Question))
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	err := s.forum.DeleteQuestion.Execute(r.Context(), usecases.DeleteQuestionRequest{
		QuestionID: chi.URLParam(r, "id"),
		AuthorID:   subject(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) answerQuestion(w http.ResponseWriter, r *http.Request) {
	var b answerBody
	if err := s.decode(r, "answer", &b); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.AnswerQuestion.Execute(r.Context(), usecases.AnswerQuestionRequest{
		AuthorID:      subject(r),
		QuestionID:    chi.URLParam(r, "id"),
		Content:       b.Content,
		AttachmentIDs: b.AttachmentIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentAnswer(res.Answer))
}

func (s *Server) fetchQuestionAnswers(w http.ResponseWriter, r *http.Request) {
	p, err := page(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.FetchQuestionAnswers.Execute(r.Context(), usecases.FetchQuestionAnswersRequest{QuestionID: chi.URLParam(r, "id"), Page: p})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"answers": presentAnswers(res.Answers)})
}

func (s *Server) editAnswer(w http.ResponseWriter, r *http.Request) {
	var b answerBody
	if err := s.decode(r, "answer", &b); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.EditAnswer.Execute(r.Context(), usecases.EditAnswerRequest{
		AuthorID:      subject(r),
		AnswerID:      chi.URLParam(r, "id"),
		Content:       b.Content,
		AttachmentIDs: b.AttachmentIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentAnswer(res.Answer))
}

func (s *Server) deleteAnswer(w http.ResponseWriter, r *http.Request) {
	err := s.forum.DeleteAnswer.Execute(r.Context(), usecases.DeleteAnswerRequest{AuthorID: subject(r), AnswerID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) chooseBestAnswer(w http.ResponseWriter, r *http.Request) {
	res, err := s.forum.ChooseQuestionBestAnswer.Execute(r.Context(), usecases.ChooseQuestionBestAnswerRequest{
		AuthorID: subject(r),
		AnswerID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentQuestion(res.Question))
}

func (s *Server) commentOnQuestion(w http.ResponseWriter, r *http.Request) {
	var b commentBody
	if err := s.decode(r, "comment", &b); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.CommentOnQuestion.Execute(r.Context(), usecases.CommentOnQuestionRequest{
		AuthorID:   subject(r),
		QuestionID: chi.URLParam(r, "id"),
		Content:    b.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res.Comment)
}

func (s *Server) fetchQuestionComments(w http.ResponseWriter, r *http.Request) {
	p, err := page(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cs, err := s.forum.FetchQuestionComments.Execute(r.Context(), usecases.FetchQuestionCommentsRequest{QuestionID: chi.URLParam(r, "id"), Page: p})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": cs})
}

func (s *Server) deleteQuestionComment(w http.ResponseWriter, r *http.Request) {
	err := s.forum.DeleteQuestionComment.Execute(r.Context(), usecases.DeleteCommentRequest{AuthorID: subject(r), CommentID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) commentOnAnswer(w http.ResponseWriter, r *http.Request) {
	var b commentBody
	if err := s.decode(r, "comment", &b); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.CommentOnAnswer.Execute(r.Context(), usecases.CommentOnAnswerRequest{
		AuthorID: subject(r),
		AnswerID: chi.URLParam(r, "id"),
		Content:  b.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res.Comment)
}

func (s *Server) fetchAnswerComments(w http.ResponseWriter, r *http.Request) {
	p, err := page(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cs, err := s.forum.FetchAnswerComments.Execute(r.Context(), usecases.FetchAnswerCommentsRequest{AnswerID: chi.URLParam(r, "id"), Page: p})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": cs})
}

func (s *Server) deleteAnswerComment(w http.ResponseWriter, r *http.Request) {
	err := s.forum.DeleteAnswerComment.Execute(r.Context(), usecases.DeleteCommentRequest{AuthorID: subject(r), CommentID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) registerAttachment(w http.ResponseWriter, r *http.Request) {
	var b attachmentBody
	if err := s.decode(r, "attachment", &b); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.forum.RegisterAttachment.Execute(r.Context(), usecases.RegisterAttachmentRequest{Title: b.Title, URL: b.URL})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res.Attachment)
}

func (s *Server) fetchNotifications(w http.ResponseWriter, r *http.Request) {
	p, err := page(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ns, err := s.forum.FetchNotifications.Execute(r.Context(), usecases.FetchNotificationsRequest{RecipientID: subject(r), Page: p})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": ns})
}

func (s *Server) readNotification(w http.ResponseWriter, r *http.Request) {
	res, err := s.forum.ReadNotification.Execute(r.Context(), usecases.ReadNotificationRequest{
		RecipientID:    subject(r),
		NotificationID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Notification)
}
