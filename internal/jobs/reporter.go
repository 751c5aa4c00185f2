package jobs

import (
	"github.com/mpetrenko/smartcat-translator/pkg/log"
)

// QueueReporter forwards batch progress events into the queue's per-job
// progress field, and mirrors them to the log.
type QueueReporter struct {
	queue *Queue
	jobID string
}

func NewQueueReporter(queue *Queue, jobID string) *QueueReporter {
	return &QueueReporter{queue: queue, jobID: jobID}
}

func (r *QueueReporter) OnProgress(message string) {
	log.Info("[%s] %s", r.jobID, message)
	r.queue.RecordProgress(r.jobID, message)
}

func (r *QueueReporter) OnItemCompleted(label, status string) {
	log.Info("[%s] %s: %s", r.jobID, label, status)
	r.queue.RecordProgress(r.jobID, label+": "+status)
}

func (r *QueueReporter) OnBatchCompleted(summary string) {
	log.Info("[%s] %s", r.jobID, summary)
}

func (r *QueueReporter) OnError(message string) {
	log.Error("[%s] %s", r.jobID, message)
}
