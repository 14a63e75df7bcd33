package events

import (
	"time"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/topic"

	"github.com/griefbot/memeforge/pkg/api"
)

type (
	// Hub fans run lifecycle events out to any number of consumers. Each
	// consumer owns an independent cursor; a slow consumer never blocks
	// the publisher or other consumers
	Hub struct {
		topic topic.Topic[*Event]
		prod  topic.Producer[*Event]
	}

	// Consumer receives events published to a Hub
	Consumer = topic.Consumer[*Event]
)

// NewHub creates an event hub for run lifecycle events
func NewHub() *Hub {
	t := caravan.NewTopic[*Event]()
	return &Hub{
		topic: t,
		prod:  t.NewProducer(),
	}
}

// NewConsumer registers a new consumer of the hub's events. The caller is
// responsible for closing it
func (h *Hub) NewConsumer() Consumer {
	return h.topic.NewConsumer()
}

// Publish stamps and publishes an event to all consumers
func (h *Hub) Publish(ev *Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	h.prod.Send() <- ev
}

// Close shuts down the hub's producer side
func (h *Hub) Close() {
	h.prod.Close()
}

// RunStartedEvent builds the event published when a run begins
func RunStartedEvent(pipeline api.Name, runID api.RunID) *Event {
	return &Event{Type: RunStarted, Pipeline: pipeline, RunID: runID}
}

// StepStartedEvent builds the event published before a step handler runs
func StepStartedEvent(
	pipeline api.Name, runID api.RunID, step api.Name,
) *Event {
	return &Event{
		Type: StepStarted, Pipeline: pipeline, RunID: runID, Step: step,
	}
}

// StepCompletedEvent builds the event published after a step's output has
// been validated
func StepCompletedEvent(
	pipeline api.Name, runID api.RunID, step api.Name,
) *Event {
	return &Event{
		Type: StepCompleted, Pipeline: pipeline, RunID: runID, Step: step,
	}
}

// ResultEvent builds the terminal event for a run from its Result
func ResultEvent(res *api.Result) *Event {
	if res.IsSuccess() {
		return &Event{
			Type:     RunCompleted,
			Pipeline: res.Pipeline,
			RunID:    res.RunID,
			Output:   res.Output,
		}
	}
	return &Event{
		Type:       RunFailed,
		Pipeline:   res.Pipeline,
		RunID:      res.RunID,
		Step:       res.FailedStep,
		Reason:     res.Reason,
		Detail:     res.Detail,
		Violations: res.Violations,
	}
}

// StepFailedEvent builds the event published when a step fails, before the
// terminal run event
func StepFailedEvent(
	pipeline api.Name, runID api.RunID, step api.Name,
	reason api.FailureReason, detail string,
) *Event {
	return &Event{
		Type:     StepFailed,
		Pipeline: pipeline,
		RunID:    runID,
		Step:     step,
		Reason:   reason,
		Detail:   detail,
	}
}
