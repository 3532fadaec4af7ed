// Package readiness scores Definition of Ready / Definition of Done criteria.
package readiness

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/starford/goalpost/internal/models"
)

// Category weights in the readiness score. They sum to 100.
const (
	RequiredWeight    = 60
	RecommendedWeight = 30
	OptionalWeight    = 10
)

// CategoryProgress counts completed criteria within one category.
type CategoryProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Ratio is Completed/Total, treating an empty category as fully satisfied.
func (c CategoryProgress) Ratio() float64 {
	if c.Total == 0 {
		return 1
	}
	return float64(c.Completed) / float64(c.Total)
}

// Counts holds per-category progress.
type Counts struct {
	Required    CategoryProgress `json:"required"`
	Recommended CategoryProgress `json:"recommended"`
	Optional    CategoryProgress `json:"optional"`
}

// Score is the full readiness evaluation of a criteria list.
type Score struct {
	Counts            Counts `json:"counts"`
	ReadinessScore    int    `json:"readinessScore"`
	CompletionScore   int    `json:"completionScore"`
	IsReadyToStart    bool   `json:"isReadyToStart"`
	IsReadyToComplete bool   `json:"isReadyToComplete"`
}

// CategoryCounts tallies completion per category. Unknown categories are ignored.
func CategoryCounts(criteria []models.Criterion) Counts {
	var c Counts
	for _, cr := range criteria {
		var p *CategoryProgress
		switch cr.Category {
		case models.CategoryRequired:
			p = &c.Required
		case models.CategoryRecommended:
			p = &c.Recommended
		case models.CategoryOptional:
			p = &c.Optional
		default:
			continue
		}
		p.Total++
		if cr.Completed {
			p.Completed++
		}
	}
	return c
}

// ReadinessScore is the 60/30/10 weighted score, rounded.
func ReadinessScore(c Counts) int {
	v := RequiredWeight*c.Required.Ratio() +
		RecommendedWeight*c.Recommended.Ratio() +
		OptionalWeight*c.Optional.Ratio()
	return int(math.Round(v))
}

// CompletionScore is the rounded share of all criteria marked complete; 100 when empty.
func CompletionScore(criteria []models.Criterion) int {
	if len(criteria) == 0 {
		return 100
	}
	done := 0
	for _, cr := range criteria {
		if cr.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(criteria))))
}

// IsReadyToStart reports whether every required criterion is complete.
func IsReadyToStart(criteria []models.Criterion) bool {
	for _, cr := range criteria {
		if cr.Category == models.CategoryRequired && !cr.Completed {
			return false
		}
	}
	return true
}

// IsReadyToComplete reports whether every criterion, in any category, is complete.
func IsReadyToComplete(criteria []models.Criterion) bool {
	if !IsReadyToStart(criteria) {
		return false
	}
	for _, cr := range criteria {
		if !cr.Completed {
			return false
		}
	}
	return true
}

// Evaluate computes the full Score for a criteria list.
func Evaluate(criteria []models.Criterion) Score {
	counts := CategoryCounts(criteria)
	return Score{
		Counts:            counts,
		ReadinessScore:    ReadinessScore(counts),
		CompletionScore:   CompletionScore(criteria),
		IsReadyToStart:    IsReadyToStart(criteria),
		IsReadyToComplete: IsReadyToComplete(criteria),
	}
}

// Sort orders criteria by explicit order, then category precedence, then creation
// time, then ID. It returns a new slice and leaves the input untouched.
func Sort(criteria []models.Criterion) []models.Criterion {
	out := slices.Clone(criteria)
	slices.SortStableFunc(out, func(a, b models.Criterion) int {
		return cmp.Or(
			cmp.Compare(a.Order, b.Order),
			cmp.Compare(a.Category.Precedence(), b.Category.Precedence()),
			a.CreatedAt.Compare(b.CreatedAt),
			strings.Compare(a.ID, b.ID),
		)
	})
	return out
}

// Issue is one validation finding against a criterion.
type Issue struct {
	CriterionID string          `json:"criterionId"`
	Rule        models.RuleType `json:"rule,omitempty"`
	Message     string          `json:"message"`
}

// Result separates blocking errors from advisory warnings.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Validate applies each criterion's rule and the category policy.
//
// Required-type rules block while incomplete. Dependency rules block when the
// criterion is complete but a listed dependency is not. Conditional rules warn
// when their condition criterion is complete and they are not. Incomplete
// recommended criteria always warn and never block.
func Validate(criteria []models.Criterion) Result {
	byID := make(map[string]models.Criterion, len(criteria))
	for _, cr := range criteria {
		byID[cr.ID] = cr
	}

	res := Result{Errors: []Issue{}, Warnings: []Issue{}}
	for _, cr := range Sort(criteria) {
		if rule := cr.Validation; rule != nil {
			switch rule.Type {
			case models.RuleRequired:
				if !cr.Completed {
					res.Errors = append(res.Errors, Issue{
						CriterionID: cr.ID,
						Rule:        rule.Type,
						Message:     ruleMessage(rule, fmt.Sprintf("%q must be completed", cr.Description)),
					})
				}
			case models.RuleDependency:
				if cr.Completed {
					if unmet := unmetDependencies(rule.DependsOn, byID); len(unmet) > 0 {
						res.Errors = append(res.Errors, Issue{
							CriterionID: cr.ID,
							Rule:        rule.Type,
							Message: ruleMessage(rule, fmt.Sprintf("%q depends on incomplete criteria: %s",
								cr.Description, strings.Join(unmet, ", "))),
						})
					}
				}
			case models.RuleConditional:
				if dep, ok := byID[rule.Condition]; ok && dep.Completed && !cr.Completed {
					res.Warnings = append(res.Warnings, Issue{
						CriterionID: cr.ID,
						Rule:        rule.Type,
						Message: ruleMessage(rule, fmt.Sprintf("%q applies because %q is complete",
							cr.Description, dep.Description)),
					})
				}
			}
		}
		if cr.Category == models.CategoryRecommended && !cr.Completed {
			res.Warnings = append(res.Warnings, Issue{
				CriterionID: cr.ID,
				Message:     fmt.Sprintf("recommended criterion %q is not complete", cr.Description),
			})
		}
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// unmetDependencies returns dependency IDs that are missing or incomplete, in listed order.
func unmetDependencies(ids []string, byID map[string]models.Criterion) []string {
	var out []string
	for _, id := range ids {
		if dep, ok := byID[id]; !ok || !dep.Completed {
			out = append(out, id)
		}
	}
	return out
}

func ruleMessage(rule *models.ValidationRule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}
