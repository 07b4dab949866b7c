package interview

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Class is the outcome of classifying a raw candidate utterance.
type Class int

const (
	// ClassHesitant marks silence, fillers, refusals and noise.
	ClassHesitant Class = iota
	// ClassPositiveShort marks short affirmative confirmations.
	ClassPositiveShort
	// ClassSubstantive marks everything usable as an actual answer.
	ClassSubstantive
)

func (c Class) String() string {
	switch c {
	case ClassHesitant:
		return "hesitant"
	case ClassPositiveShort:
		return "positive-short"
	case ClassSubstantive:
		return "substantive"
	default:
		return "unknown"
	}
}

// Filler and refusal phrases that never count as an answer.
var hesitationPhrases = map[string]bool{
	"...": true, ".": true, "..": true,
	"uh": true, "uhh": true, "um": true, "umm": true,
	"hmm": true, "huh": true, "mm": true,
	"idk": true, "i don't know": true, "i dont know": true,
	"dont know": true, "no idea": true,
	"no": true, "nah": true, "nope": true,
	"skip": true, "next": true, "none": true,
}

// Short confirmations that pass as answers.
var positiveShorts = map[string]bool{
	"yes": true, "y": true, "ok": true, "okay": true,
	"sure": true, "fine": true, "good": true,
}

var punctuationNoise = regexp.MustCompile(`^[^a-zA-Z0-9\s]+$`)

// Classify decides whether a raw utterance is usable as an answer. Pure
// lexical heuristics, no model call. Rules are applied in order on the
// trimmed, lowercased input.
func Classify(raw string) Class {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return ClassHesitant
	}

	if hesitationPhrases[text] {
		return ClassHesitant
	}

	if positiveShorts[text] {
		return ClassPositiveShort
	}

	length := utf8.RuneCountInString(text)

	// Single letters carry no content, except bare yes/no shorthands.
	if length == 1 && text != "y" && text != "n" {
		return ClassHesitant
	}

	if length <= 2 && !positiveShorts[text] {
		return ClassHesitant
	}

	// Short punctuation or symbol noise like "?!" or "###".
	if length <= 4 && punctuationNoise.MatchString(text) {
		return ClassHesitant
	}

	return ClassSubstantive
}
