package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
)

// factorFlagRule maps one detected risk factor to the flag it raises.
type factorFlagRule struct {
	Type     model.FlagType
	Severity model.Severity
	Title    string
}

var factorFlagRules = map[string]factorFlagRule{
	"Unlimited liability": {
		Type:     model.FlagTypeLegalRisk,
		Severity: model.SeverityHigh,
		Title:    "Unlimited liability clause poses significant financial risk",
	},
	"Vague termination": {
		Type:     model.FlagTypeVagueTerms,
		Severity: model.SeverityMedium,
		Title:    "Termination terms lack specific conditions and notice requirements",
	},
	"No dispute resolution": {
		Type:     model.FlagTypeMissingClause,
		Severity: model.SeverityMedium,
		Title:    "No dispute resolution mechanism accompanies the termination terms",
	},
	"Excessive penalties": {
		Type:     model.FlagTypeFinancialRisk,
		Severity: model.SeverityMedium,
		Title:    "Penalty or liquidated damages terms may be excessive",
	},
	"Broad indemnification": {
		Type:     model.FlagTypeUnfavorableTerms,
		Severity: model.SeverityHigh,
		Title:    "One-sided indemnification creates high risk exposure",
	},
}

// deriveFlags turns an analysis into the set of open risk flags for the MOU.
// Each distinct risk factor raises at most one flag regardless of how many
// clauses tripped it; missing standard clauses and a non-compliant verdict
// raise their own flags.
func deriveFlags(a *model.DocumentAnalysis, cfg config.RiskConfig, now time.Time) []model.RiskFlag {
	var flags []model.RiskFlag
	seen := make(map[string]struct{})

	for _, c := range a.Clauses {
		for _, factor := range c.RiskFactors {
			if _, dup := seen[factor]; dup {
				continue
			}
			seen[factor] = struct{}{}

			rule, ok := factorFlagRules[factor]
			if !ok {
				rule = factorFlagRule{
					Type:     model.FlagTypeLegalRisk,
					Severity: model.SeverityMedium,
					Title:    factor,
				}
			}
			flags = append(flags, model.RiskFlag{
				ID:          uuid.NewString(),
				MOUID:       a.MOUID,
				Type:        rule.Type,
				Severity:    rule.Severity,
				Title:       rule.Title,
				Description: fmt.Sprintf("%s (detected in %s clause scoring %.1f)", rule.Title, c.Type, c.RiskScore),
				CreatedAt:   now,
			})
		}
	}

	present := make(map[model.ClauseType]struct{}, len(a.Clauses))
	for _, c := range a.Clauses {
		present[c.Type] = struct{}{}
	}
	for _, ct := range model.StandardClauseTypes() {
		if _, ok := present[ct]; ok {
			continue
		}
		name := strings.ReplaceAll(string(ct), "_", " ")
		flags = append(flags, model.RiskFlag{
			ID:          uuid.NewString(),
			MOUID:       a.MOUID,
			Type:        model.FlagTypeMissingClause,
			Severity:    model.SeverityMedium,
			Title:       fmt.Sprintf("Missing %s clause", name),
			Description: fmt.Sprintf("The document does not contain a recognizable %s clause", name),
			CreatedAt:   now,
		})
	}

	if a.ComplianceStatus == model.ComplianceNonCompliant {
		flags = append(flags, model.RiskFlag{
			ID:          uuid.NewString(),
			MOUID:       a.MOUID,
			Type:        model.FlagTypeComplianceRisk,
			Severity:    model.SeverityCritical,
			Title:       "Document assessed as non-compliant",
			Description: fmt.Sprintf("Overall risk score %.1f with %d high-risk clauses", a.OverallRiskScore, len(a.HighRiskClauses(cfg.HighClauseScore))),
			CreatedAt:   now,
		})
	}

	return flags
}
