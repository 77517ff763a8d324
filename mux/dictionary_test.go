package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMessageDictionary(t *testing.T) {
	d := NewMessageDictionary(language.English)
	d.Add(language.French, MessageDefaultNotFound, "Introuvable")
	d.Add(language.French, "greeting", "Bonjour")
	d.Add(language.English, "greeting", "Hello")

	tests := []struct {
		name   string
		key    string
		accept string
		want   string
	}{
		{name: "no header uses fallback", key: "greeting", want: "Hello"},
		{name: "exact language", key: "greeting", accept: "fr", want: "Bonjour"},
		{name: "regional variant", key: "greeting", accept: "fr-CA,fr;q=0.9", want: "Bonjour"},
		{name: "quality ordering", key: "greeting", accept: "de;q=0.5,fr;q=0.9", want: "Bonjour"},
		{name: "unknown language", key: "greeting", accept: "ja", want: "Hello"},
		{name: "missing in language falls back", key: MessageDefaultException, accept: "fr", want: "An error occurred."},
		{name: "default not found", key: MessageDefaultNotFound, want: "Not found"},
		{name: "translated default", key: MessageDefaultNotFound, accept: "fr", want: "Introuvable"},
		{name: "unknown key", key: "nope", want: "nope"},
		{name: "malformed header", key: "greeting", accept: ";;;", want: "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Message(tt.key, tt.accept))
		})
	}
}

func TestMessageDictionaryFallbackLanguage(t *testing.T) {
	d := NewMessageDictionary(language.German)
	d.Add(language.German, MessageDefaultNotFound, "Nicht gefunden")

	assert.Equal(t, "Nicht gefunden", d.Message(MessageDefaultNotFound, ""))
	assert.Equal(t, "Nicht gefunden", d.Message(MessageDefaultNotFound, "es"))
	assert.Equal(t, "An error occurred.", d.Message(MessageDefaultException, "de"))
}
