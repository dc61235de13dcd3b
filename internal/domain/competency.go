package domain

import "fmt"

// CompetencyQuestion is one self-assessment question. The first option is
// the top answer.
type CompetencyQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

var CompetencyQuestions = []CompetencyQuestion{
	{
		ID:       "cdm_knowledge",
		Question: "Are you familiar with CDM Regulations 2015 and your duties under them?",
		Options:  []string{"Yes - I understand my legal duties", "Somewhat familiar", "No - I need training"},
	},
	{
		ID:       "rams_experience",
		Question: "How many years of experience do you have creating/reviewing RAMS?",
		Options:  []string{"5+ years professional experience", "2-5 years experience", "Less than 2 years", "No formal experience"},
	},
	{
		ID:       "qualifications",
		Question: "What safety qualifications do you hold?",
		Options:  []string{"NEBOSH/IOSH + construction experience", "Basic safety qualifications", "No formal qualifications"},
	},
}

const (
	competencyTopPoints   = 3
	competencyOtherPoints = 1
	CompetencyPassMark    = 7
)

type CompetencyResult struct {
	Score    int  `json:"score"`
	Verified bool `json:"verified"`
}

// AssessCompetency scores answers keyed by question ID. Every question must
// be answered; a top answer scores 3 and anything else scores 1.
func AssessCompetency(answers map[string]string) (CompetencyResult, error) {
	var score int
	for _, q := range CompetencyQuestions {
		a, ok := answers[q.ID]
		if !ok || a == "" {
			return CompetencyResult{}, fmt.Errorf("%w: %s not answered", ErrIncompleteAnswers, q.ID)
		}
		if a == q.Options[0] {
			score += competencyTopPoints
		} else {
			score += competencyOtherPoints
		}
	}
	return CompetencyResult{Score: score, Verified: score >= CompetencyPassMark}, nil
}
