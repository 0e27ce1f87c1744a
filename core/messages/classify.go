package messages

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`^\[(?i:(USER|TARGET|CAUTION|SUMMARY))\]\s+`)

// Classify splits a raw assistant reply into its kind and text.
//
// A reply may start with one of the tags [USER], [TARGET], [CAUTION] or
// [SUMMARY] (any letter case) followed by at least one whitespace character.
// For a tagged reply the tag and the separating whitespace are removed and the
// remainder is trimmed. Replies without a recognised tag are returned
// unchanged with [KindAssistant].
func Classify(raw string) (Kind, string) {
	match := tagPattern.FindStringSubmatchIndex(raw)
	if match == nil {
		return KindAssistant, raw
	}

	kind := Kind(strings.ToUpper(raw[match[2]:match[3]]))
	if !kind.taggable() {
		return KindAssistant, raw
	}

	return kind, strings.TrimSpace(raw[match[1]:])
}

// ClassifyMessage is [Classify] returning a [Message].
func ClassifyMessage(raw string) Message {
	kind, text := Classify(raw)
	return Message{Kind: kind, Text: text}
}
