package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FixContent is replacement content for a form field: either free text or a
// tag set. On the wire it is a JSON string or a JSON array of strings.
type FixContent struct {
	Text string
	Tags []string
}

// TextFix wraps s as text content.
func TextFix(s string) FixContent { return FixContent{Text: s} }

// TagFix wraps tags as tag-set content.
func TagFix(tags ...string) FixContent {
	if tags == nil {
		tags = []string{}
	}
	return FixContent{Tags: tags}
}

// IsTags reports whether the content is a tag set.
func (c FixContent) IsTags() bool { return c.Tags != nil }

// IsZero reports whether there is nothing to apply.
func (c FixContent) IsZero() bool { return c.Tags == nil && c.Text == "" }

func (c FixContent) String() string {
	if c.IsTags() {
		return strings.Join(c.Tags, ", ")
	}
	return c.Text
}

func (c FixContent) MarshalJSON() ([]byte, error) {
	if c.IsTags() {
		return json.Marshal(c.Tags)
	}
	return json.Marshal(c.Text)
}

func (c *FixContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = FixContent{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var tags []string
		if err := json.Unmarshal(data, &tags); err != nil {
			return err
		}
		*c = TagFix(tags...)
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextFix(s)
		return nil
	}
}

// FixPlan reports what an auto-fix pass did, or would do in dry-run mode.
type FixPlan struct {
	Applied      []AppliedFix  `json:"applied"`
	Instructions []Instruction `json:"instructions"`
	ScoreBefore  int           `json:"score_before"`
	ScoreAfter   int           `json:"score_after"`
	Form         *FormSnapshot `json:"form,omitempty"`
}

// AppliedFix is one field overwritten by an auto-fix.
type AppliedFix struct {
	RuleID      string `json:"rule_id,omitempty"`
	Field       string `json:"field"`
	Description string `json:"description"`
}

// Instruction is a finding with no auto-fix; a person has to act on it.
type Instruction struct {
	RuleID     string     `json:"rule_id,omitempty"`
	Field      string     `json:"field"`
	Message    string     `json:"message"`
	Priority   Severity   `json:"priority"`
	Regulation Regulation `json:"regulation,omitempty"`
}

type FixOptions struct {
	DryRun      bool         `json:"dry_run"`
	RuleIDs     []string     `json:"rule_ids,omitempty"`
	Regulations []Regulation `json:"regulations,omitempty"`
}
