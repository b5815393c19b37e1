package inmemory

import (
	"context"
	"testing"

	"forum/core"
	"forum/events"
	"forum/models"
)

type recorded struct{ names []string }

func (r *recorded) handler(_ context.Context, e core.DomainEvent) error {
	r.names = append(r.names, e.EventName())
	return nil
}

func TestQuestionsRepositoryDispatchesOnSave(t *testing.T) {
	ctx := context.Background()
	d := events.NewDispatcher()
	rec := &recorded{}
	d.Register(models.QuestionBestAnswerChosenEventName, rec.handler)
	repo := NewQuestionsRepository(d, nil, nil, nil)

	q := models.NewQuestion(models.QuestionProps{AuthorID: "a", Title: "t", Content: "c"}, "")
	if err := repo.Create(ctx, q); err != nil {
		t.Fatal(err)
	}
	q.SetBestAnswerID("answer-1")
	if len(rec.names) != 0 {
		t.Fatalf("events must wait for persistence")
	}
	if err := repo.Save(ctx, q); err != nil {
		t.Fatal(err)
	}
	if len(rec.names) != 1 {
		t.Fatalf("expected one dispatched event, got %v", rec.names)
	}
	if len(q.DomainEvents()) != 0 {
		t.Fatalf("pending events not cleared")
	}
}

func TestSaveUnknownQuestion(t *testing.T) {
	repo := NewQuestionsRepository(nil, nil, nil, nil)
	q := models.NewQuestion(models.QuestionProps{Title: "t"}, "")
	if err := repo.Save(context.Background(), q); err != core.ErrResourceNotFound {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestAnswersRepositoryPersistsAttachmentChanges(t *testing.T) {
	ctx := context.Background()
	links := NewAnswerAttachmentsRepository()
	repo := NewAnswersRepository(nil, links)

	initial := models.NewAnswerAttachmentList([]*models.AnswerAttachment{
		models.NewAnswerAttachment("", "1", ""),
		models.NewAnswerAttachment("", "2", ""),
	})
	a := models.NewAnswer(models.AnswerProps{Content: "c", Attachments: initial}, "")
	if err := repo.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if len(links.Items) != 2 {
		t.Fatalf("expected 2 links after create, got %d", len(links.Items))
	}

	stored, _ := links.FindManyByAnswerID(ctx, a.ID())
	list := models.NewAnswerAttachmentList(stored)
	list.Update([]*models.AnswerAttachment{models.NewAnswerAttachment(a.ID(), "2", ""), models.NewAnswerAttachment(a.ID(), "3", "")})
	a.SetAttachments(list)
	if err := repo.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	got := map[core.ID]bool{}
	for _, l := range links.Items {
		got[l.AttachmentID] = true
	}
	if len(got) != 2 || !got["2"] || !got["3"] {
		t.Fatalf("links after save = %v, want {2,3}", got)
	}

	a.SetContent("edited again")
	if err := repo.Save(ctx, a); err != nil {
		t.Fatal(err)
	}
	if len(links.Items) != 2 {
		t.Fatalf("second save must not replay link changes, got %d links", len(links.Items))
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	tests := []struct{ page, want int }{{0, 20}, {1, 20}, {3, 5}, {4, 0}}
	for _, tt := range tests {
		if got := len(paginate(items, tt.page)); got != tt.want {
			t.Errorf("page %d: got %d items, want %d", tt.page, got, tt.want)
		}
	}
}

func TestStudentsSaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentsRepository()
	_ = repo.Save(ctx, &models.Student{ID: "s1", Name: "A"})
	_ = repo.Save(ctx, &models.Student{ID: "s1", Name: "B"})
	s, _ := repo.FindByID(ctx, "s1")
	if len(repo.Items) != 1 || s.Name != "B" {
		t.Fatalf("expected single updated student, got %+v", repo.Items)
	}
}
