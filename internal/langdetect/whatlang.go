// Package langdetect guesses the language of submitted text. The result is
// advisory only: it is surfaced to the user when it disagrees with the
// configured source language, but never changes what gets sent upstream.
package langdetect

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// minLetters guards against detecting on noise like "42" or ":-)".
const minLetters = 6

// Detect returns the most likely language of text. The second return value is
// false when the sample is too short or detection is not reliable.
func Detect(text string) (language.Tag, bool) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return language.Und, false
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < minLetters {
		return language.Und, false
	}

	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return language.Und, false
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return language.Und, false
	}
	return language.All.Make(code), true
}

// Matches reports whether the detected language of text agrees with want.
// Unreliable detections count as a match so the caller never warns on noise.
func Matches(text string, want language.Tag) bool {
	detected, ok := Detect(text)
	if !ok {
		return true
	}
	detectedBase, _ := detected.Base()
	wantBase, _ := want.Base()
	return detectedBase == wantBase
}
