package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want language.Tag
		ok   bool
	}{
		{name: "russian", text: "Добрый день, это тестовое сообщение для перевода.", want: language.Russian, ok: true},
		{name: "english", text: "Good afternoon, this is a test message for translation.", want: language.English, ok: true},
		{name: "empty", text: "", ok: false},
		{name: "whitespace only", text: "   \n\t", ok: false},
		{name: "too short", text: "ok 42", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				gotBase, _ := got.Base()
				wantBase, _ := tt.want.Base()
				assert.Equal(t, wantBase, gotBase)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Это сообщение написано на русском языке для проверки.", language.Russian))
	assert.False(t, Matches("This message is clearly written in English for testing.", language.Russian))
	assert.True(t, Matches("??", language.Russian), "unreliable detection never warns")
}
