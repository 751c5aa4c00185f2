package jobs

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Kind distinguishes the two submission flavors.
type Kind string

const (
	KindText  Kind = "text"
	KindFiles Kind = "files"
)

type EnqueueRequest struct {
	Source    string
	DedupeKey string
	Kind      Kind
	Payload   BatchPayload
}

// BatchPayload describes one submitted batch. Exactly one of Text or
// FilePaths is set, matching Kind.
type BatchPayload struct {
	Text      string   `json:"text,omitempty"`
	FilePaths []string `json:"file_paths,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
}

type BatchJob struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"`
	DedupeKey string       `json:"dedupe_key"`
	Kind      Kind         `json:"kind"`
	Payload   BatchPayload `json:"payload"`
	Status    Status       `json:"status"`
	// Progress is the latest human-readable progress line of a running job.
	Progress string `json:"progress,omitempty"`
	// Summary is the final batch outcome of a successful job.
	Summary   string    `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
