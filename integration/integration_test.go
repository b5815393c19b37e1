package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"forum/api"
	"forum/core"
	"forum/events"
	"forum/inmemory"
	"forum/kafka"
	"forum/models"
	"forum/subscribers"
	"forum/usecases"
)

type stack struct {
	t   *testing.T
	srv *api.Server
	ts  *httptest.Server
}

// newStack runs the whole service in process on the in-memory driver. When
// broker is set, notifications travel through Kafka before reaching the hub.
func newStack(t *testing.T, broker, topic string) *stack {
	t.Helper()
	d := events.NewDispatcher()
	repos := inmemory.Repositories(d)
	hub := api.NewHub()

	var primary usecases.NotificationPublisher
	var broadcast chan models.Notification
	if broker != "" {
		p := kafka.NewProducer(broker, topic, "")
		t.Cleanup(func() { _ = p.Close() })
		primary = p
		broadcast = make(chan models.Notification)
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		go kafka.NewConsumer(broker, topic, p).Run(ctx, broadcast)
	}

	forum := usecases.NewForum(repos, api.NewFallbackPublisher(primary, hub))
	subscribers.NewOnQuestionBestAnswerChosen(repos.Answers, forum.SendNotification).Subscribe(d)
	subscribers.NewOnAnswerCreated(repos.Questions, forum.SendNotification).Subscribe(d)

	v, err := api.NewValidator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	verifier := api.VerifierFunc(func(_ context.Context, raw string) (api.Identity, error) {
		if raw == "" || strings.HasPrefix(raw, "bad") {
			return api.Identity{}, errors.New("invalid token")
		}
		return api.Identity{Subject: raw, Name: "Student " + raw}, nil
	})
	srv := api.NewServer(forum, verifier, v, hub, broadcast, nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &stack{t: t, srv: srv, ts: ts}
}

func (s *stack) call(method, path, token string, body interface{}, wantStatus int, out interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.ts.URL+path, &buf)
	if err != nil {
		s.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		s.t.Fatalf("%s %s: expected %d got %d", method, path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			s.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}

func (s *stack) connect(student string) *websocket.Conn {
	s.t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.ts.URL, "http")+"/ws?token="+student, nil)
	if err != nil {
		s.t.Fatalf("dial: %v", err)
	}
	s.t.Cleanup(func() { _ = conn.Close() })
	deadline := time.Now().Add(2 * time.Second)
	for s.srv.Hub().Connections(core.ID(student)) == 0 {
		if time.Now().After(deadline) {
			s.t.Fatal("websocket client was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return conn
}

type event struct {
	Type         string `json:"type"`
	Notification struct {
		RecipientID string `json:"recipient_id"`
		Title       string `json:"title"`
		Content     string `json:"content"`
	} `json:"notification"`
}

func readEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	var ev event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

type idView struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	AttachmentIDs []string `json:"attachment_ids"`
}

func TestForumFlow(t *testing.T) {
	s := newStack(t, "", "")
	bobConn := s.connect("bob")

	var a1, a2 idView
	s.call(http.MethodPost, "/attachments", "alice", map[string]string{"title": "trace", "url": "https://example.com/trace.out"}, http.StatusCreated, &a1)
	s.call(http.MethodPost, "/attachments", "alice", map[string]string{"title": "pprof", "url": "https://example.com/cpu.pprof"}, http.StatusCreated, &a2)

	var q idView
	s.call(http.MethodPost, "/questions", "alice", map[string]interface{}{
		"title":          "Why is my program slow",
		"content":        "It spends most of its time in the garbage collector.",
		"attachment_ids": []string{a1.ID},
	}, http.StatusCreated, &q)
	if q.Slug != "why-is-my-program-slow" {
		t.Fatalf("unexpected slug %q", q.Slug)
	}

	var edited idView
	s.call(http.MethodPut, "/questions/"+q.ID, "alice", map[string]interface{}{
		"title":          "Why is my program slow",
		"content":        "Profiles attached.",
		"attachment_ids": []string{a2.ID},
	}, http.StatusOK, &edited)
	if len(edited.AttachmentIDs) != 1 || edited.AttachmentIDs[0] != a2.ID {
		t.Fatalf("expected only the pprof attachment, got %v", edited.AttachmentIDs)
	}

	var details struct {
		Question struct {
			AuthorName  string `json:"author_name"`
			Attachments []struct {
				Title string `json:"title"`
			} `json:"attachments"`
		} `json:"question"`
	}
	s.call(http.MethodGet, "/questions/"+q.Slug+"/details", "bob", nil, http.StatusOK, &details)
	if details.Question.AuthorName != "Student alice" || len(details.Question.Attachments) != 1 || details.Question.Attachments[0].Title != "pprof" {
		t.Fatalf("unexpected details: %+v", details.Question)
	}

	var ans idView
	s.call(http.MethodPost, "/questions/"+q.ID+"/answers", "bob", map[string]string{"content": "Reduce allocations in the hot loop."}, http.StatusCreated, &ans)
	s.call(http.MethodPatch, "/answers/"+ans.ID+"/choose-as-best", "alice", nil, http.StatusOK, nil)
	// Choosing the same answer again must not notify twice.
	s.call(http.MethodPatch, "/answers/"+ans.ID+"/choose-as-best", "alice", nil, http.StatusOK, nil)

	ev := readEvent(t, bobConn, 2*time.Second)
	if ev.Type != "notification" || ev.Notification.Title != "Your answer was chosen!" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	var list struct {
		Notifications []json.RawMessage `json:"notifications"`
	}
	s.call(http.MethodGet, "/notifications", "bob", nil, http.StatusOK, &list)
	if len(list.Notifications) != 1 {
		t.Fatalf("expected 1 notification for bob, got %d", len(list.Notifications))
	}
	s.call(http.MethodGet, "/notifications", "alice", nil, http.StatusOK, &list)
	if len(list.Notifications) != 1 {
		t.Fatalf("expected 1 notification for alice, got %d", len(list.Notifications))
	}

	s.call(http.MethodDelete, "/questions/"+q.ID, "alice", nil, http.StatusNoContent, nil)
	s.call(http.MethodGet, "/questions/"+q.Slug, "bob", nil, http.StatusNotFound, nil)
}

// TestForumFlowThroughKafka needs a broker with the topic created:
// TEST_KAFKA_BROKER=localhost:9092 TEST_KAFKA_TOPIC=forum-notifications-test
func TestForumFlowThroughKafka(t *testing.T) {
	broker := os.Getenv("TEST_KAFKA_BROKER")
	if broker == "" {
		t.Skip("TEST_KAFKA_BROKER not set")
	}
	topic := os.Getenv("TEST_KAFKA_TOPIC")
	if topic == "" {
		topic = "forum-notifications-test"
	}
	s := newStack(t, broker, topic)
	// Give the reader time to position itself at the end of the topic.
	time.Sleep(time.Second)
	aliceConn := s.connect("alice")

	var q idView
	s.call(http.MethodPost, "/questions", "alice", map[string]string{"title": "Generics", "content": "When are they worth it?"}, http.StatusCreated, &q)
	s.call(http.MethodPost, "/questions/"+q.ID+"/answers", "bob", map[string]string{"content": "When the algorithm is the same for every type."}, http.StatusCreated, nil)

	ev := readEvent(t, aliceConn, 10*time.Second)
	if ev.Notification.RecipientID != "alice" || ev.Notification.Title != `New answer on "Generics..."` {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
