package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// Prometheus-style counters (uint64 via atomic)
var (
	questionsCreated      atomic.Uint64
	answersCreated        atomic.Uint64
	bestAnswersChosen     atomic.Uint64
	notificationsSent     atomic.Uint64
	notificationsPushed   atomic.Uint64
	eventsDispatched      atomic.Uint64
	eventHandlerFailures  atomic.Uint64
	kafkaPublishFailures  atomic.Uint64
	kafkaReaderRestarts   atomic.Uint64
	wsConnections         atomic.Int64 // gauge semantics
	oidcInitAttemptsTotal atomic.Uint64
)

func IncQuestionsCreated()     { questionsCreated.Add(1) }
func IncAnswersCreated()       { answersCreated.Add(1) }
func IncBestAnswersChosen()    { bestAnswersChosen.Add(1) }
func IncNotificationsSent()    { notificationsSent.Add(1) }
func IncNotificationsPushed()  { notificationsPushed.Add(1) }
func IncEventsDispatched()     { eventsDispatched.Add(1) }
func IncEventHandlerFailures() { eventHandlerFailures.Add(1) }
func IncKafkaPublishFailures() { kafkaPublishFailures.Add(1) }
func IncKafkaReaderRestarts()  { kafkaReaderRestarts.Add(1) }
func IncWSConnections()        { wsConnections.Add(1) }
func DecWSConnections()        { wsConnections.Add(-1) }
func AddOIDCInitAttempts(n uint64) {
	oidcInitAttemptsTotal.Add(n)
}

// Snapshot is a point-in-time copy of the counters, used by tests.
type Snapshot struct {
	QuestionsCreated     uint64
	AnswersCreated       uint64
	NotificationsSent    uint64
	EventsDispatched     uint64
	EventHandlerFailures uint64
	KafkaReaderRestarts  uint64
	WSConnections        int64
}

func Read() Snapshot {
	return Snapshot{
		QuestionsCreated:     questionsCreated.Load(),
		AnswersCreated:       answersCreated.Load(),
		NotificationsSent:    notificationsSent.Load(),
		EventsDispatched:     eventsDispatched.Load(),
		EventHandlerFailures: eventHandlerFailures.Load(),
		KafkaReaderRestarts:  kafkaReaderRestarts.Load(),
		WSConnections:        wsConnections.Load(),
	}
}

// Handler exposes metrics in a minimal Prometheus exposition format.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	counter(w, "forum_questions_created_total", "Questions created", questionsCreated.Load())
	counter(w, "forum_answers_created_total", "Answers created", answersCreated.Load())
	counter(w, "forum_best_answers_chosen_total", "Answers chosen as best", bestAnswersChosen.Load())
	counter(w, "forum_notifications_sent_total", "Notifications stored", notificationsSent.Load())
	counter(w, "forum_notifications_pushed_total", "Notifications pushed to websocket clients", notificationsPushed.Load())
	counter(w, "forum_domain_events_dispatched_total", "Domain events handed to subscribers", eventsDispatched.Load())
	counter(w, "forum_domain_event_handler_failures_total", "Subscriber errors while handling domain events", eventHandlerFailures.Load())
	counter(w, "forum_kafka_publish_failures_total", "Notification publishes that fell back to direct push", kafkaPublishFailures.Load())
	counter(w, "forum_kafka_reader_restarts_total", "Kafka reader restarts after a read failure", kafkaReaderRestarts.Load())
	counter(w, "forum_oidc_init_attempts_total", "OIDC provider discovery attempts", oidcInitAttemptsTotal.Load())

	fmt.Fprintf(w, "# HELP forum_ws_connections Open websocket connections\n")
	fmt.Fprintf(w, "# TYPE forum_ws_connections gauge\n")
	fmt.Fprintf(w, "forum_ws_connections %d\n", wsConnections.Load())
}

func counter(w http.ResponseWriter, name, help string, v uint64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s counter\n", name)
	fmt.Fprintf(w, "%s %d\n", name, v)
}
