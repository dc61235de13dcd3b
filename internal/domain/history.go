package domain

import "time"

// ScoreEntry is one recorded validation run of a form.
type ScoreEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Form       string    `json:"form"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Score      int       `json:"score"`
	Grade      string    `json:"grade"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
}

// NewScoreEntry records report against the form file name.
func NewScoreEntry(form string, report *ValidationReport, at time.Time) ScoreEntry {
	return ScoreEntry{
		Timestamp: at.UTC(),
		Form:      form,
		Score:     report.ComplianceScore,
		Grade:     report.Grade,
		Errors:    report.ErrorCount,
		Warnings:  report.WarningCount,
	}
}

// EntriesFor returns the entries recorded for form, oldest first.
func EntriesFor(entries []ScoreEntry, form string) []ScoreEntry {
	var out []ScoreEntry
	for _, e := range entries {
		if e.Form == form {
			out = append(out, e)
		}
	}
	return out
}
