package transfer

import "fmt"

// ExportState classifies a single export-task poll.
type ExportState int

const (
	// ExportPending means the artifact is still rendering remotely.
	ExportPending ExportState = iota
	// ExportReady means the artifact payload was returned.
	ExportReady
	// ExportFailed means the remote reported a non-retryable status.
	ExportFailed
)

// ExportResult is the outcome of one export-task poll.
type ExportResult struct {
	State      ExportState
	Payload    []byte
	StatusCode int
}

// Statistics summarizes pre-translation word counts for a document, restricted
// to the translation stage: machine-translated words vs translation-memory
// match words.
type Statistics struct {
	MachineTranslation int     `json:"machine_translation"`
	TranslationMemory  int     `json:"translation_memory"`
	Total              int     `json:"total"`
	MachinePercent     float64 `json:"machine_percent"`
	MemoryPercent      float64 `json:"memory_percent"`
}

func (s Statistics) String() string {
	return fmt.Sprintf("%d words (MT: %d, %.2f%%; TM: %d, %.2f%%)",
		s.Total,
		s.MachineTranslation, s.MachinePercent,
		s.TranslationMemory, s.MemoryPercent,
	)
}
