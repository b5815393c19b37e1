package usecases_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"forum/core"
	"forum/fixtures"
	"forum/inmemory"
	"forum/models"
	"forum/usecases"
)

type questionRepos struct {
	questions           *inmemory.QuestionsRepository
	questionAttachments *inmemory.QuestionAttachmentsRepository
	attachments         *inmemory.AttachmentsRepository
	students            *inmemory.StudentsRepository
}

func newQuestionRepos() questionRepos {
	r := questionRepos{
		questionAttachments: inmemory.NewQuestionAttachmentsRepository(),
		attachments:         inmemory.NewAttachmentsRepository(),
		students:            inmemory.NewStudentsRepository(),
	}
	r.questions = inmemory.NewQuestionsRepository(nil, r.questionAttachments, r.attachments, r.students)
	return r
}

func attachmentIDs[T interface{ *models.QuestionAttachment | *models.AnswerAttachment }](links []T) []string {
	ids := make([]string, 0, len(links))
	for _, l := range links {
		switch v := any(l).(type) {
		case *models.QuestionAttachment:
			ids = append(ids, v.AttachmentID.String())
		case *models.AnswerAttachment:
			ids = append(ids, v.AttachmentID.String())
		}
	}
	sort.Strings(ids)
	return ids
}

func TestCreateQuestion(t *testing.T) {
	r := newQuestionRepos()
	uc := usecases.NewCreateQuestion(r.questions)

	res, err := uc.Execute(context.Background(), usecases.CreateQuestionRequest{
		AuthorID:      "author-1",
		Title:         "New question",
		Content:       "Question content",
		AttachmentIDs: []string{"1", "2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.questions.Items) != 1 || r.questions.Items[0] != res.Question {
		t.Fatalf("question not stored")
	}
	if got := attachmentIDs(res.Question.Attachments().CurrentItems()); !cmp.Equal(got, []string{"1", "2"}) {
		t.Errorf("attachments on question = %v", got)
	}
	if len(r.questionAttachments.Items) != 2 {
		t.Fatalf("expected 2 stored links, got %d", len(r.questionAttachments.Items))
	}
	for _, link := range r.questionAttachments.Items {
		if link.QuestionID != res.Question.ID() {
			t.Errorf("link %s not owned by the question", link.ID)
		}
	}
}

func TestCreateQuestionRequiresTitle(t *testing.T) {
	r := newQuestionRepos()
	_, err := usecases.NewCreateQuestion(r.questions).Execute(context.Background(), usecases.CreateQuestionRequest{
		AuthorID: "author-1",
		Content:  "no title",
	})
	if !errors.Is(err, usecases.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(r.questions.Items) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestGetQuestionBySlug(t *testing.T) {
	r := newQuestionRepos()
	q := fixtures.MakeQuestion(models.QuestionProps{Slug: models.NewSlug("example-answer")}, "")
	r.questions.Items = append(r.questions.Items, q)
	uc := usecases.NewGetQuestionBySlug(r.questions)

	res, err := uc.Execute(context.Background(), usecases.GetQuestionBySlugRequest{Slug: "example-answer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Question.ID() != q.ID() || res.Question.Title() != q.Title() {
		t.Fatalf("got question %s, want %s", res.Question.ID(), q.ID())
	}

	_, err = uc.Execute(context.Background(), usecases.GetQuestionBySlugRequest{Slug: "missing"})
	if !errors.Is(err, core.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestGetQuestionDetails(t *testing.T) {
	r := newQuestionRepos()
	student := fixtures.MakeStudent("")
	att := fixtures.MakeAttachment("")
	q := fixtures.MakeQuestion(models.QuestionProps{AuthorID: student.ID, Slug: models.NewSlug("with-details")}, "")
	r.students.Items = append(r.students.Items, student)
	r.attachments.Items = append(r.attachments.Items, att)
	r.questions.Items = append(r.questions.Items, q)
	r.questionAttachments.Items = append(r.questionAttachments.Items, fixtures.MakeQuestionAttachment(q.ID(), att.ID))

	res, err := usecases.NewGetQuestionDetails(r.questions).Execute(context.Background(), usecases.GetQuestionDetailsRequest{Slug: "with-details"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Details.AuthorName != student.Name {
		t.Errorf("author name = %q, want %q", res.Details.AuthorName, student.Name)
	}
	if len(res.Details.Attachments) != 1 || res.Details.Attachments[0].URL != att.URL {
		t.Errorf("attachments = %+v", res.Details.Attachments)
	}
}

func TestFetchRecentQuestions(t *testing.T) {
	r := newQuestionRepos()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, day := range []int{20, 18, 23} {
		r.questions.Items = append(r.questions.Items,
			fixtures.MakeQuestion(models.QuestionProps{CreatedAt: base.AddDate(0, 0, day)}, ""))
	}
	uc := usecases.NewFetchRecentQuestions(r.questions)

	res, err := uc.Execute(context.Background(), usecases.FetchRecentQuestionsRequest{Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var days []int
	for _, q := range res.Questions {
		days = append(days, q.CreatedAt().Day()-1)
	}
	if diff := cmp.Diff([]int{23, 20, 18}, days); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchRecentQuestionsPaginated(t *testing.T) {
	r := newQuestionRepos()
	for i := 0; i < 22; i++ {
		r.questions.Items = append(r.questions.Items, fixtures.MakeQuestion(models.QuestionProps{}, ""))
	}
	res, err := usecases.NewFetchRecentQuestions(r.questions).Execute(context.Background(), usecases.FetchRecentQuestionsRequest{Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("page 2 has %d questions, want 2", len(res.Questions))
	}
}

func TestEditQuestion(t *testing.T) {
	r := newQuestionRepos()
	q := fixtures.MakeQuestion(models.QuestionProps{AuthorID: "author-1"}, "question-1")
	r.questions.Items = append(r.questions.Items, q)
	r.questionAttachments.Items = append(r.questionAttachments.Items,
		fixtures.MakeQuestionAttachment(q.ID(), "1"),
		fixtures.MakeQuestionAttachment(q.ID(), "2"),
	)
	uc := usecases.NewEditQuestion(r.questions, r.questionAttachments)

	res, err := uc.Execute(context.Background(), usecases.EditQuestionRequest{
		AuthorID:      "author-1",
		QuestionID:    "question-1",
		Title:         "Edited title",
		Content:       "Edited content",
		AttachmentIDs: []string{"1", "3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := r.questions.Items[0]
	if stored.Title() != "Edited title" || stored.Content() != "Edited content" {
		t.Errorf("question not edited: %q / %q", stored.Title(), stored.Content())
	}
	if stored.Slug().Value() != "edited-title" {
		t.Errorf("slug = %q, want edited-title", stored.Slug().Value())
	}
	if got := attachmentIDs(res.Question.Attachments().CurrentItems()); !cmp.Equal(got, []string{"1", "3"}) {
		t.Errorf("current attachments = %v, want [1 3]", got)
	}
	if got := attachmentIDs(r.questionAttachments.Items); !cmp.Equal(got, []string{"1", "3"}) {
		t.Errorf("stored attachments = %v, want [1 3]", got)
	}
}

func TestEditQuestionKeepsUnchangedLinks(t *testing.T) {
	r := newQuestionRepos()
	q := fixtures.MakeQuestion(models.QuestionProps{AuthorID: "author-1"}, "question-1")
	kept := fixtures.MakeQuestionAttachment(q.ID(), "1")
	r.questions.Items = append(r.questions.Items, q)
	r.questionAttachments.Items = append(r.questionAttachments.Items, kept)

	_, err := usecases.NewEditQuestion(r.questions, r.questionAttachments).Execute(context.Background(), usecases.EditQuestionRequest{
		AuthorID:      "author-1",
		QuestionID:    "question-1",
		Title:         q.Title(),
		Content:       q.Content(),
		AttachmentIDs: []string{"1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.questionAttachments.Items) != 1 || r.questionAttachments.Items[0].ID != kept.ID {
		t.Fatalf("unchanged link should not be recreated: %+v", r.questionAttachments.Items)
	}
}

func TestEditQuestionFromAnotherAuthor(t *testing.T) {
	r := newQuestionRepos()
	q := fixtures.MakeQuestion(models.QuestionProps{AuthorID: "author-1", Title: "Original"}, "question-1")
	r.questions.Items = append(r.questions.Items, q)

	_, err := usecases.NewEditQuestion(r.questions, r.questionAttachments).Execute(context.Background(), usecases.EditQuestionRequest{
		AuthorID:   "author-2",
		QuestionID: "question-1",
		Title:      "Hijacked",
		Content:    "Hijacked",
	})
	if !errors.Is(err, core.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if r.questions.Items[0].Title() != "Original" {
		t.Fatalf("question must stay untouched")
	}
}

func TestEditMissingQuestion(t *testing.T) {
	r := newQuestionRepos()
	_, err := usecases.NewEditQuestion(r.questions, r.questionAttachments).Execute(context.Background(), usecases.EditQuestionRequest{
		AuthorID:   "author-1",
		QuestionID: "missing",
	})
	if !errors.Is(err, core.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestDeleteQuestion(t *testing.T) {
	r := newQuestionRepos()
	q := fixtures.MakeQuestion(models.QuestionProps{AuthorID: "author-1"}, "question-1")
	other := fixtures.MakeQuestion(models.QuestionProps{}, "")
	r.questions.Items = append(r.questions.Items, q, other)
	r.questionAttachments.Items = append(r.questionAttachments.Items,
		fixtures.MakeQuestionAttachment(q.ID(), "1"),
		fixtures.MakeQuestionAttachment(q.ID(), "2"),
		fixtures.MakeQuestionAttachment(other.ID(), "3"),
	)

	err := usecases.NewDeleteQuestion(r.questions).Execute(context.Background(), usecases.DeleteQuestionRequest{
		QuestionID: "question-1",
		AuthorID:   "author-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.questions.Items) != 1 || r.questions.Items[0].ID() != other.ID() {
		t.Fatalf("question not deleted")
	}
	if got := attachmentIDs(r.questionAttachments.Items); !cmp.Equal(got, []string{"3"}) {
		t.Fatalf("remaining links = %v, want [3]", got)
	}
}

func TestDeleteQuestionFromAnotherAuthor(t *testing.T) {
	r := newQuestionRepos()
	r.questions.Items = append(r.questions.Items,
		fixtures.MakeQuestion(models.QuestionProps{AuthorID: "author-1"}, "question-1"))

	err := usecases.NewDeleteQuestion(r.questions).Execute(context.Background(), usecases.DeleteQuestionRequest{
		QuestionID: "question-1",
		AuthorID:   "author-2",
	})
	if !errors.Is(err, core.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if len(r.questions.Items) != 1 {
		t.Fatalf("question must not be deleted")
	}
}

func TestDeleteMissingQuestion(t *testing.T) {
	r := newQuestionRepos()
	err := usecases.NewDeleteQuestion(r.questions).Execute(context.Background(), usecases.DeleteQuestionRequest{
		QuestionID: "missing",
		AuthorID:   "author-1",
	})
	if !errors.Is(err, core.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestSaveAfterEditDoesNotRecreateLinks(t *testing.T) {
	ctx := context.Background()
	r := newQuestionRepos()
	answers := inmemory.NewAnswersRepository(nil, nil)

	created, err := usecases.NewCreateQuestion(r.questions).Execute(ctx, usecases.CreateQuestionRequest{
		AuthorID:      "author-1",
		Title:         "Question",
		Content:       "Content",
		AttachmentIDs: []string{"1", "2"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Question.ID().String()
	_, err = usecases.NewEditQuestion(r.questions, r.questionAttachments).Execute(ctx, usecases.EditQuestionRequest{
		AuthorID:      "author-1",
		QuestionID:    id,
		Title:         "Question",
		Content:       "Content",
		AttachmentIDs: []string{"1", "3"},
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	a := fixtures.MakeAnswer(models.AnswerProps{QuestionID: created.Question.ID()}, "")
	answers.Items = append(answers.Items, a)
	_, err = usecases.NewChooseQuestionBestAnswer(r.questions, answers).Execute(ctx, usecases.ChooseQuestionBestAnswerRequest{
		AuthorID: "author-1",
		AnswerID: a.ID().String(),
	})
	if err != nil {
		t.Fatalf("choose best answer: %v", err)
	}

	if got := attachmentIDs(r.questionAttachments.Items); !cmp.Equal(got, []string{"1", "3"}) {
		t.Fatalf("stored links = %v, want [1 3]", got)
	}
	q := r.questions.Items[0]
	if len(q.Attachments().NewItems()) != 0 || len(q.Attachments().RemovedItems()) != 0 {
		t.Fatalf("saved question should carry no pending link changes")
	}
}

func TestChooseQuestionBestAnswer(t *testing.T) {
	r := newQuestionRepos()
	answers := inmemory.NewAnswersRepository(nil, nil)
	q := fixtures.MakeQuestion(models.QuestionProps{AuthorID: "author-1"}, "")
	a := fixtures.MakeAnswer(models.AnswerProps{QuestionID: q.ID()}, "")
	r.questions.Items = append(r.questions.Items, q)
	answers.Items = append(answers.Items, a)
	uc := usecases.NewChooseQuestionBestAnswer(r.questions, answers)

	_, err := uc.Execute(context.Background(), usecases.ChooseQuestionBestAnswerRequest{AuthorID: "author-2", AnswerID: a.ID().String()})
	if !errors.Is(err, core.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}

	res, err := uc.Execute(context.Background(), usecases.ChooseQuestionBestAnswerRequest{AuthorID: "author-1", AnswerID: a.ID().String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Question.BestAnswerID() != a.ID() {
		t.Fatalf("best answer = %s, want %s", res.Question.BestAnswerID(), a.ID())
	}
	if len(res.Question.DomainEvents()) != 0 {
		t.Fatalf("save should drain pending events")
	}
}
