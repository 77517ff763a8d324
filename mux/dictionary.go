package mux

import (
	"sync"

	"golang.org/x/text/language"
)

// Message keys used by the default not-found and exception handlers.
const (
	MessageDefaultException = "mux.exception.default"
	MessageDefaultNotFound  = "mux.notfound.default"
)

// Dictionary resolves user facing messages for the languages a client
// accepts.
type Dictionary interface {
	Message(key, acceptLanguage string) string
}

// MessageDictionary is a Dictionary backed by per language message tables.
// Messages missing in the negotiated language come from the fallback
// language, then from the key itself.
type MessageDictionary struct {
	mu       sync.RWMutex
	fallback language.Tag
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
}

// NewMessageDictionary returns a dictionary holding the default English
// messages, using fallback when no accepted language is known.
func NewMessageDictionary(fallback language.Tag) *MessageDictionary {
	d := &MessageDictionary{
		fallback: fallback,
		messages: make(map[language.Tag]map[string]string),
	}
	d.tags = []language.Tag{fallback}
	d.matcher = language.NewMatcher(d.tags)

	d.Add(language.English, MessageDefaultException, "An error occurred.")
	d.Add(language.English, MessageDefaultNotFound, "Not found")
	return d
}

// Add sets the message for key in language tag.
func (d *MessageDictionary) Add(tag language.Tag, key, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	table, ok := d.messages[tag]
	if !ok {
		table = make(map[string]string)
		d.messages[tag] = table
		if tag != d.fallback {
			d.tags = append(d.tags, tag)
			d.matcher = language.NewMatcher(d.tags)
		}
	}
	table[key] = message
}

// Message returns the message for key in the best language of an
// Accept-Language header value.
func (d *MessageDictionary) Message(key, acceptLanguage string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tag := d.fallback
	if acceptLanguage != "" {
		if accepted, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(accepted) > 0 {
			_, idx, conf := d.matcher.Match(accepted...)
			if conf != language.No {
				tag = d.tags[idx]
			}
		}
	}

	if msg, ok := d.messages[tag][key]; ok {
		return msg
	}
	if msg, ok := d.messages[d.fallback][key]; ok {
		return msg
	}
	if msg, ok := d.messages[language.English][key]; ok {
		return msg
	}
	return key
}
