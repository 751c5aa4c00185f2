package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	jobs map[string]*BatchJob
}

func newMemoryStore() *memoryStore {
	return &memoryStore{jobs: make(map[string]*BatchJob)}
}

func (m *memoryStore) LoadJobs(_ context.Context) ([]*BatchJob, error) {
	ret := make([]*BatchJob, 0, len(m.jobs))
	for _, j := range m.jobs {
		ret = append(ret, cloneJob(j))
	}
	return ret, nil
}

func (m *memoryStore) UpsertJob(_ context.Context, job *BatchJob) error {
	m.jobs[job.ID] = cloneJob(job)
	return nil
}

func (m *memoryStore) DeleteJob(_ context.Context, jobID string) error {
	delete(m.jobs, jobID)
	return nil
}

func TestQueue_RecoversPendingAndRunningJobsFromStore(t *testing.T) {
	store := newMemoryStore()
	now := time.Now()
	store.jobs["job-1"] = &BatchJob{
		ID:        "job-1",
		Source:    "watch",
		DedupeKey: "files|/in/a.docx",
		Kind:      KindFiles,
		Status:    StatusPending,
		Payload: BatchPayload{
			FilePaths: []string{"/in/a.docx"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.jobs["job-2"] = &BatchJob{
		ID:        "job-2",
		Source:    "watch",
		DedupeKey: "files|/in/b.docx",
		Kind:      KindFiles,
		Status:    StatusRunning,
		Progress:  "Uploading b.docx...",
		Payload: BatchPayload{
			FilePaths: []string{"/in/b.docx"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	q := NewQueue(1, store)

	jobs := q.List()
	require.Len(t, jobs, 2)
	byID := map[string]*BatchJob{}
	for _, j := range jobs {
		byID[j.ID] = j
	}

	// A job caught mid-run by a restart goes back to pending and restarts
	// from upload; its stale progress line is cleared.
	require.Contains(t, byID, "job-2")
	assert.Equal(t, StatusPending, byID["job-2"].Status)
	assert.Empty(t, byID["job-2"].Progress)

	q.Start(func(_ context.Context, _ *BatchJob) (string, error) { return "ok", nil })
	defer q.Stop()

	require.Eventually(t, func() bool {
		got, ok := q.Get("job-1")
		return ok && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		got, ok := q.Get("job-2")
		return ok && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)
}

func TestQueue_ContinuesIDSequenceAfterRestore(t *testing.T) {
	store := newMemoryStore()
	now := time.Now()
	store.jobs["job-7"] = &BatchJob{
		ID:        "job-7",
		Status:    StatusSuccess,
		Kind:      KindText,
		CreatedAt: now,
		UpdatedAt: now,
	}

	q := NewQueue(1, store)
	job, created := q.Enqueue(EnqueueRequest{Source: "api", Kind: KindText})
	require.True(t, created)
	assert.Equal(t, "job-8", job.ID)
}
