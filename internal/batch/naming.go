package batch

import (
	"path/filepath"
	"strings"
)

// translatedSuffix is appended to the stem of every translated file.
const translatedSuffix = "-translated"

// TranslatedPath returns the destination for the translated copy of
// sourcePath: the original stem plus the translated suffix and the original
// extension, placed in outputDir when set, else alongside the source.
func TranslatedPath(sourcePath, outputDir string) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}

	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	return filepath.Join(dir, stem+translatedSuffix+ext)
}
