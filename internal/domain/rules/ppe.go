package rules

import "github.com/Hannlytics/rams-generator/internal/domain"

var baselinePPE = []domain.PPE{domain.PPEHardHat, domain.PPESafetyBoots, domain.PPEHiVis}

var ppeMatrix = map[domain.Hazard][]domain.PPE{
	domain.HazardWorkingAtHeight: {domain.PPEHarness, domain.PPEHardHat},
	domain.HazardElectrical:      {domain.PPEGloves, domain.PPEGlasses},
	domain.HazardDust:            {domain.PPERespirator, domain.PPEGlasses},
	domain.HazardManualHandling:  {domain.PPEGloves, domain.PPESafetyBoots},
	domain.HazardNoiseVibration:  {domain.PPEEarDefenders},
	domain.HazardHotWorks:        {domain.PPEFaceShield, domain.PPEGloves},
	domain.HazardCOSHH:           {domain.PPEGloves, domain.PPEFaceShield},
}

// RequiredPPE returns the PPE the selected hazards call for, baseline first.
// With no hazards selected nothing is required.
func RequiredPPE(f domain.FormSnapshot) []domain.PPE {
	if len(f.SelectedHazards) == 0 {
		return nil
	}
	seen := map[domain.PPE]bool{}
	var out []domain.PPE
	add := func(p domain.PPE) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range baselinePPE {
		add(p)
	}
	for _, h := range f.SelectedHazards {
		for _, p := range ppeMatrix[h] {
			add(p)
		}
	}
	return out
}

func ppeRules() []Rule {
	return []Rule{
		{
			ID: "PPE-001", Regulation: domain.RegulationPPE, Field: domain.FieldSelectedPPE,
			CheckType:  CheckCompleteness,
			Severity:   domain.SeverityHigh,
			Message:    "PPE selection doesn't match identified hazards.",
			Suggestion: "Select the baseline site PPE plus the items each hazard requires.",
			References: []string{"Personal Protective Equipment at Work Regulations 1992, Regulation 4"},
			Check: func(f domain.FormSnapshot) bool {
				for _, p := range RequiredPPE(f) {
					if !f.HasPPE(p) {
						return false
					}
				}
				return true
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				tags := make([]string, 0, len(f.SelectedPPE))
				seen := map[domain.PPE]bool{}
				for _, p := range append(append([]domain.PPE(nil), f.SelectedPPE...), RequiredPPE(f)...) {
					if !seen[p] {
						seen[p] = true
						tags = append(tags, string(p))
					}
				}
				return domain.TagFix(tags...)
			},
		},
	}
}
