package transfer

import (
	"encoding/json"
	"math"
)

// translationStage is the only stage whose word counts contribute to the
// summary; editing and proofreading stages are excluded.
const translationStage = "translation"

type stageEntry struct {
	StageType  string `json:"stageType"`
	Wordcounts struct {
		MT        float64            `json:"mt"`
		TMMatches map[string]float64 `json:"tmMatches"`
	} `json:"wordcounts"`
}

// computeStatistics sums machine-translation and translation-memory word
// counts over translation-stage entries. Returns nil when the payload cannot
// be parsed or the total is zero.
func computeStatistics(body []byte) *Statistics {
	var entries []stageEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil
	}

	var mt, tm float64
	for _, entry := range entries {
		if entry.StageType != translationStage {
			continue
		}
		mt += entry.Wordcounts.MT
		for _, words := range entry.Wordcounts.TMMatches {
			tm += words
		}
	}

	total := mt + tm
	if total <= 0 {
		return nil
	}

	return &Statistics{
		MachineTranslation: int(mt),
		TranslationMemory:  int(tm),
		Total:              int(total),
		MachinePercent:     roundPercent(mt / total * 100),
		MemoryPercent:      roundPercent(tm / total * 100),
	}
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
