// Package scoring turns a suggestion list into a 0-100 compliance score.
package scoring

import (
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
)

const (
	maxScore = 100
	minScore = 0
)

// Calculator applies per-severity deductions and best-practice bonuses.
type Calculator struct {
	weights domain.SeverityWeights
	bonuses domain.BonusConfig
}

// New creates a Calculator from scoring configuration.
func New(cfg domain.ScoringConfig) *Calculator {
	return &Calculator{weights: cfg.Weights, bonuses: cfg.Bonuses}
}

// Default uses the built-in weights: critical 40, high 25, medium 10, low 5.
func Default() *Calculator { return New(domain.DefaultConfig().Scoring) }

// Deduction is the points one suggestion cost.
type Deduction struct {
	ID       string          `json:"id,omitempty"`
	Field    string          `json:"field"`
	Severity domain.Severity `json:"severity"`
	Points   int             `json:"points"`
}

// Bonus is a best-practice signal that earned points.
type Bonus struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Breakdown explains how a score was reached.
type Breakdown struct {
	Deductions []Deduction `json:"deductions"`
	Bonuses    []Bonus     `json:"bonuses"`
	Score      int         `json:"score"`
}

// Score computes the compliance score. Each suggestion deducts its
// severity's weight exactly once; bonuses are added; the result is
// clamped to [0, 100]. No suggestions yields exactly 100.
func (c *Calculator) Score(form domain.FormSnapshot, suggestions []domain.Suggestion) int {
	return c.Breakdown(form, suggestions).Score
}

func (c *Calculator) Breakdown(form domain.FormSnapshot, suggestions []domain.Suggestion) Breakdown {
	b := Breakdown{Deductions: []Deduction{}, Bonuses: []Bonus{}}
	score := maxScore

	// 1. Deduct per suggestion
	for _, s := range suggestions {
		pts := c.weights.For(s.Severity)
		score -= pts
		b.Deductions = append(b.Deductions, Deduction{ID: s.ID, Field: s.Field, Severity: s.Severity, Points: pts})
	}

	// 2. Add bonuses
	for _, bonus := range c.bonusesFor(form) {
		score += bonus.Points
		b.Bonuses = append(b.Bonuses, bonus)
	}

	// 3. Clamp
	b.Score = clamp(score)
	return b
}

func (c *Calculator) bonusesFor(form domain.FormSnapshot) []Bonus {
	var out []Bonus
	if c.bonuses.ReviewedBy > 0 && present(form.ReviewedBy) {
		out = append(out, Bonus{Name: "reviewed_by", Points: c.bonuses.ReviewedBy})
	}
	if c.bonuses.DetailedControls > 0 && len(form.Controls) > c.bonuses.ControlsMinChars {
		out = append(out, Bonus{Name: "detailed_controls", Points: c.bonuses.DetailedControls})
	}
	if c.bonuses.DetailedMethod > 0 && len(form.MethodStatement) > c.bonuses.MethodMinChars {
		out = append(out, Bonus{Name: "detailed_method", Points: c.bonuses.DetailedMethod})
	}
	// a named major trauma centre in the emergency plan
	if c.bonuses.TraumaCentre > 0 && strings.Contains(strings.ToLower(form.EmergencyContacts), "trauma") {
		out = append(out, Bonus{Name: "trauma_centre", Points: c.bonuses.TraumaCentre})
	}
	return out
}

// Floor is the score an empty form gets against rs: every required-section
// rule fails and no bonus applies.
func (c *Calculator) Floor(rs []rules.Rule) int {
	score := maxScore
	for _, r := range rs {
		if r.CheckType == rules.CheckRequiredSection {
			score -= c.weights.For(r.Severity)
		}
	}
	return clamp(score)
}

func clamp(score int) int {
	return max(minScore, min(maxScore, score))
}

func present(s string) bool { return strings.TrimSpace(s) != "" }
