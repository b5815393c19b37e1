package subscribers_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"forum/events"
	"forum/fixtures"
	"forum/inmemory"
	"forum/models"
	"forum/subscribers"
	"forum/usecases"
)

type spySender struct {
	sent []usecases.SendNotificationRequest
	err  error
}

func (s *spySender) Execute(_ context.Context, req usecases.SendNotificationRequest) (usecases.SendNotificationResponse, error) {
	s.sent = append(s.sent, req)
	if s.err != nil {
		return usecases.SendNotificationResponse{}, s.err
	}
	return usecases.SendNotificationResponse{Notification: models.NewNotification("", req.Title, req.Content, "")}, nil
}

type forum struct {
	dispatcher *events.Dispatcher
	questions  *inmemory.QuestionsRepository
	answers    *inmemory.AnswersRepository
	sender     *spySender
}

func newForum() forum {
	d := events.NewDispatcher()
	f := forum{
		dispatcher: d,
		questions:  inmemory.NewQuestionsRepository(d, inmemory.NewQuestionAttachmentsRepository(), nil, nil),
		answers:    inmemory.NewAnswersRepository(d, inmemory.NewAnswerAttachmentsRepository()),
		sender:     &spySender{},
	}
	subscribers.NewOnQuestionBestAnswerChosen(f.answers, f.sender).Subscribe(d)
	subscribers.NewOnAnswerCreated(f.questions, f.sender).Subscribe(d)
	return f
}

func TestNotifyWhenBestAnswerChosen(t *testing.T) {
	ctx := context.Background()
	f := newForum()
	q := fixtures.MakeQuestion(models.QuestionProps{Title: "How do goroutines get scheduled on threads?"}, "")
	a := fixtures.MakeAnswer(models.AnswerProps{AuthorID: "answer-author", QuestionID: q.ID()}, "")
	if err := f.questions.Create(ctx, q); err != nil {
		t.Fatal(err)
	}
	if err := f.answers.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("rehydrated answer must not notify, got %+v", f.sender.sent)
	}

	q.SetBestAnswerID(a.ID())
	if err := f.questions.Save(ctx, q); err != nil {
		t.Fatal(err)
	}

	if len(f.sender.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.sender.sent))
	}
	got := f.sender.sent[0]
	if got.RecipientID != "answer-author" {
		t.Errorf("recipient = %q, want answer-author", got.RecipientID)
	}
	if got.Title != "Your answer was chosen!" {
		t.Errorf("title = %q", got.Title)
	}
	want := `The answer you sent to "How do goroutines ge..." was chosen by the author!`
	if got.Content != want {
		t.Errorf("content = %q, want %q", got.Content, want)
	}
}

func TestChoosingSameBestAnswerTwiceNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	f := newForum()
	q := fixtures.MakeQuestion(models.QuestionProps{}, "")
	a := fixtures.MakeAnswer(models.AnswerProps{QuestionID: q.ID()}, "")
	f.questions.Items = append(f.questions.Items, q)
	f.answers.Items = append(f.answers.Items, a)

	for i := 0; i < 2; i++ {
		q.SetBestAnswerID(a.ID())
		if err := f.questions.Save(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.sender.sent))
	}
}

func TestNotifyQuestionAuthorOnNewAnswer(t *testing.T) {
	ctx := context.Background()
	f := newForum()
	q := fixtures.MakeQuestion(models.QuestionProps{AuthorID: "question-author", Title: "Short title"}, "")
	f.questions.Items = append(f.questions.Items, q)

	a := models.NewAnswer(models.AnswerProps{AuthorID: "someone", QuestionID: q.ID(), Content: "Use a buffered channel."}, "")
	if err := f.answers.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	if len(f.sender.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.sender.sent))
	}
	got := f.sender.sent[0]
	if got.RecipientID != "question-author" {
		t.Errorf("recipient = %q", got.RecipientID)
	}
	if got.Title != `New answer on "Short title..."` {
		t.Errorf("title = %q", got.Title)
	}
	if !strings.HasPrefix(got.Content, "Use a buffered channel.") {
		t.Errorf("content = %q", got.Content)
	}
}

func TestSubscriberFailureDoesNotFailSave(t *testing.T) {
	ctx := context.Background()
	f := newForum()
	f.sender.err = errors.New("notifications down")
	q := fixtures.MakeQuestion(models.QuestionProps{}, "")
	a := fixtures.MakeAnswer(models.AnswerProps{QuestionID: q.ID()}, "")
	f.questions.Items = append(f.questions.Items, q)
	f.answers.Items = append(f.answers.Items, a)

	q.SetBestAnswerID(a.ID())
	if err := f.questions.Save(ctx, q); err != nil {
		t.Fatalf("save must succeed when a subscriber fails: %v", err)
	}
	if q.BestAnswerID() != a.ID() {
		t.Fatalf("best answer not persisted")
	}
}
