package batch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatedPath(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		outputDir string
		want      string
	}{
		{
			name:   "alongside source",
			source: filepath.Join("docs", "report.docx"),
			want:   filepath.Join("docs", "report-translated.docx"),
		},
		{
			name:      "into output dir",
			source:    filepath.Join("docs", "report.docx"),
			outputDir: "out",
			want:      filepath.Join("out", "report-translated.docx"),
		},
		{
			name:   "no extension",
			source: filepath.Join("docs", "README"),
			want:   filepath.Join("docs", "README-translated"),
		},
		{
			name:   "multiple dots keep only last extension",
			source: filepath.Join("in", "archive.tar.gz"),
			want:   filepath.Join("in", "archive.tar-translated.gz"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslatedPath(tt.source, tt.outputDir))
		})
	}
}
