package pipeline

import (
	"github.com/ytget/yt-clipper/internal/model"
)

// eventBuffer bounds how far listeners may run ahead of the callback
const eventBuffer = 64

// ProgressFunc receives progress records for the active job
type ProgressFunc func(model.ProgressRecord)

// emitter serializes the records of one job onto a single forwarder
// goroutine, so the callback never runs concurrently with itself and sees
// records in send order.
type emitter struct {
	jobID  string
	events chan model.ProgressRecord
	done   chan struct{}
}

func newEmitter(jobID string, deliver func() ProgressFunc) *emitter {
	e := &emitter{
		jobID:  jobID,
		events: make(chan model.ProgressRecord, eventBuffer),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(e.done)
		for rec := range e.events {
			if fn := deliver(); fn != nil {
				fn(rec)
			}
		}
	}()
	return e
}

func (e *emitter) send(rec model.ProgressRecord) {
	rec.JobID = e.jobID
	e.events <- rec
}

// close stops accepting records and waits until all were delivered
func (e *emitter) close() {
	close(e.events)
	<-e.done
}
