package validation

import (
	"strings"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"
)

// Accuracy reports how closely extracted text matches a reference text.
type Accuracy struct {
	// WER is the word error rate: word-level edit distance divided by the
	// reference word count.
	WER float64 `json:"word_error_rate"`

	// CER is the character error rate: character-level edit distance
	// divided by the reference character count.
	CER float64 `json:"character_error_rate"`

	// MatchScore condenses both rates into a 0-100 score, 100 meaning an
	// exact match after whitespace normalization.
	MatchScore float64 `json:"match_score"`

	ReferenceWords int `json:"reference_words"`
	ReferenceChars int `json:"reference_chars"`
}

// Compare scores the extracted text against the expected reference text.
// Both texts are whitespace-normalized before comparison; casing and
// punctuation are preserved since OCR engines are expected to reproduce them.
func Compare(expected, actual string) Accuracy {
	expWords := strings.Fields(expected)
	actWords := strings.Fields(actual)
	expNorm := strings.Join(expWords, " ")
	actNorm := strings.Join(actWords, " ")

	acc := Accuracy{
		ReferenceWords: len(expWords),
		ReferenceChars: len([]rune(expNorm)),
	}

	if acc.ReferenceChars > 0 {
		dist := levenshtein.Distance(expNorm, actNorm)
		acc.CER = float64(dist) / float64(acc.ReferenceChars)
	} else if len(actNorm) > 0 {
		acc.CER = 1
	}

	if acc.ReferenceWords > 0 {
		rate, _ := wer.WER(expWords, actWords)
		acc.WER = rate
	} else if len(actWords) > 0 {
		acc.WER = 1
	}

	acc.MatchScore = 100 * (1 - clamp01((acc.WER+acc.CER)/2))
	return acc
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
