package models

import "time"

// CriterionCategory weights a DoR/DoD criterion.
type CriterionCategory string

const (
	CategoryRequired    CriterionCategory = "required"
	CategoryRecommended CriterionCategory = "recommended"
	CategoryOptional    CriterionCategory = "optional"
)

// Precedence orders categories for display: required first.
func (c CriterionCategory) Precedence() int {
	switch c {
	case CategoryRequired:
		return 0
	case CategoryRecommended:
		return 1
	case CategoryOptional:
		return 2
	}
	return 3
}

// RuleType selects how a criterion's validation rule is evaluated.
type RuleType string

const (
	RuleRequired    RuleType = "required"
	RuleDependency  RuleType = "dependency"
	RuleConditional RuleType = "conditional"
)

// ValidationRule is an optional constraint attached to a criterion.
type ValidationRule struct {
	Type RuleType `json:"type" yaml:"type"`
	// DependsOn lists criterion IDs that must be complete first (dependency rules).
	DependsOn []string `json:"dependsOn,omitempty" yaml:"depends_on,omitempty"`
	// Condition is the criterion ID whose completion activates this one (conditional rules).
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Criterion is one Definition of Ready / Definition of Done entry.
type Criterion struct {
	ID          string            `json:"id" yaml:"id"`
	Description string            `json:"description" yaml:"description"`
	Category    CriterionCategory `json:"category" yaml:"category"`
	Completed   bool              `json:"completed" yaml:"completed"`
	CompletedAt *time.Time        `json:"completedAt,omitempty" yaml:"-"`
	CompletedBy string            `json:"completedBy,omitempty" yaml:"-"`
	Validation  *ValidationRule   `json:"validation,omitempty" yaml:"validation,omitempty"`
	HelpText    string            `json:"helpText,omitempty" yaml:"help_text,omitempty"`
	Order       int               `json:"order" yaml:"order"`
	CreatedAt   time.Time         `json:"createdAt" yaml:"-"`
}

// Checkpoint is a timestamped observation of a goal's measurable value.
type Checkpoint struct {
	ID         string    `json:"id"`
	GoalID     string    `json:"goalId"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recordedAt"`
	Note       string    `json:"note,omitempty"`
	Automatic  bool      `json:"automatic"`
	Confidence *float64  `json:"confidence,omitempty"`
	Source     string    `json:"source,omitempty"`

	Audit
}
