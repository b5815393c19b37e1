package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"forum/core"
	"forum/fixtures"
	"forum/inmemory"
	"forum/models"
	"forum/usecases"
)

type spyPublisher struct {
	published []models.Notification
	err       error
}

func (p *spyPublisher) Publish(_ context.Context, n models.Notification) error {
	p.published = append(p.published, n)
	return p.err
}

func TestSendNotification(t *testing.T) {
	repo := inmemory.NewNotificationsRepository()
	pub := &spyPublisher{}
	uc := usecases.NewSendNotification(repo, pub)

	res, err := uc.Execute(context.Background(), usecases.SendNotificationRequest{
		RecipientID: "student-1",
		Title:       "Hello",
		Content:     "World",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Items) != 1 || repo.Items[0].ID != res.Notification.ID {
		t.Fatalf("notification not stored")
	}
	if len(pub.published) != 1 || pub.published[0].RecipientID != "student-1" {
		t.Fatalf("notification not published: %+v", pub.published)
	}
}

func TestSendNotificationPublishFailureKeepsNotification(t *testing.T) {
	repo := inmemory.NewNotificationsRepository()
	uc := usecases.NewSendNotification(repo, &spyPublisher{err: errors.New("broker down")})

	if _, err := uc.Execute(context.Background(), usecases.SendNotificationRequest{RecipientID: "student-1", Title: "t", Content: "c"}); err != nil {
		t.Fatalf("publish failure must not fail the use case: %v", err)
	}
	if len(repo.Items) != 1 {
		t.Fatalf("notification should be stored")
	}
}

func TestReadNotification(t *testing.T) {
	repo := inmemory.NewNotificationsRepository()
	n := fixtures.MakeNotification("student-1")
	repo.Items = append(repo.Items, n)
	uc := usecases.NewReadNotification(repo)

	_, err := uc.Execute(context.Background(), usecases.ReadNotificationRequest{RecipientID: "student-1", NotificationID: "missing"})
	if !errors.Is(err, core.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}

	_, err = uc.Execute(context.Background(), usecases.ReadNotificationRequest{RecipientID: "student-2", NotificationID: n.ID.String()})
	if !errors.Is(err, core.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if n.ReadAt != nil {
		t.Fatalf("notification must stay unread")
	}

	res, err := uc.Execute(context.Background(), usecases.ReadNotificationRequest{RecipientID: "student-1", NotificationID: n.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Notification.ReadAt == nil || repo.Items[0].ReadAt == nil {
		t.Fatalf("notification not marked as read")
	}
}

func TestFetchNotificationsNewestFirst(t *testing.T) {
	repo := inmemory.NewNotificationsRepository()
	older := fixtures.MakeNotification("student-1")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := fixtures.MakeNotification("student-1")
	repo.Items = append(repo.Items, older, newer, fixtures.MakeNotification("student-2"))

	ns, err := usecases.NewFetchNotifications(repo).Execute(context.Background(), usecases.FetchNotificationsRequest{RecipientID: "student-1", Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ns) != 2 || ns[0].ID != newer.ID || ns[1].ID != older.ID {
		t.Fatalf("unexpected notifications order: %+v", ns)
	}
}

func TestRegisterAttachment(t *testing.T) {
	repo := inmemory.NewAttachmentsRepository()
	uc := usecases.NewRegisterAttachment(repo)

	tests := []struct {
		name    string
		req     usecases.RegisterAttachmentRequest
		wantErr bool
	}{
		{"https url", usecases.RegisterAttachmentRequest{Title: "notes.pdf", URL: "https://files.example.com/notes.pdf"}, false},
		{"missing title", usecases.RegisterAttachmentRequest{URL: "https://files.example.com/a.pdf"}, true},
		{"ftp url", usecases.RegisterAttachmentRequest{Title: "a", URL: "ftp://files.example.com/a.pdf"}, true},
		{"no host", usecases.RegisterAttachmentRequest{Title: "a", URL: "https:///a.pdf"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, usecases.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if len(repo.Items) != 1 {
		t.Fatalf("expected one stored attachment, got %d", len(repo.Items))
	}
}

func TestEnsureStudent(t *testing.T) {
	repo := inmemory.NewStudentsRepository()
	uc := usecases.NewEnsureStudent(repo)

	if _, err := uc.Execute(context.Background(), usecases.EnsureStudentRequest{StudentID: "student-1", Name: "Ada"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := uc.Execute(context.Background(), usecases.EnsureStudentRequest{StudentID: "student-1", Name: "Ada L."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Items) != 1 || s.Name != "Ada L." {
		t.Fatalf("student not refreshed: %+v", repo.Items)
	}
	if _, err := uc.Execute(context.Background(), usecases.EnsureStudentRequest{}); !errors.Is(err, usecases.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
