package store

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/starford/goalpost/internal/models"
)

// SortField is the closed set of goal list orderings.
type SortField string

const (
	SortCreatedAt  SortField = "created_at"
	SortUpdatedAt  SortField = "updated_at"
	SortTitle      SortField = "title"
	SortPriority   SortField = "priority"
	SortStatus     SortField = "status"
	SortTargetDate SortField = "target_date"
)

// SortFields lists every sort field.
func SortFields() []SortField {
	return []SortField{SortCreatedAt, SortUpdatedAt, SortTitle, SortPriority, SortStatus, SortTargetDate}
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Pagination bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// GoalQuery filters, orders and pages a goal listing. Zero-valued filters match everything.
type GoalQuery struct {
	Statuses   []models.GoalStatus
	Priorities []models.Priority
	Category   string
	OwnerID    string
	// Tags matches goals carrying any of the listed tags.
	Tags []string
	// TargetFrom and TargetTo bound timebound.targetDate, inclusive.
	TargetFrom *time.Time
	TargetTo   *time.Time
	// Search is a case-insensitive substring match on title, description and tags.
	Search         string
	IncludeDeleted bool

	SortField     SortField
	SortDirection SortDirection
	Page          int
	Limit         int
}

// WithDefaults fills unset paging and ordering fields and caps the limit.
func (q GoalQuery) WithDefaults() GoalQuery {
	if q.SortField == "" {
		q.SortField = SortCreatedAt
	}
	if q.SortDirection == "" {
		q.SortDirection = Desc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// Offset is the number of rows skipped before the current page.
// It saturates at math.MaxInt rather than overflowing.
func (q GoalQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Match reports whether g passes every filter of q.
func (q GoalQuery) Match(g models.Goal) bool {
	if g.Deleted && !q.IncludeDeleted {
		return false
	}
	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, g.Status) {
		return false
	}
	if len(q.Priorities) > 0 && !slices.Contains(q.Priorities, g.Priority) {
		return false
	}
	if q.Category != "" && g.Category != q.Category {
		return false
	}
	if q.OwnerID != "" && g.OwnerID != q.OwnerID {
		return false
	}
	if len(q.Tags) > 0 && !slices.ContainsFunc(g.Tags, func(t string) bool { return slices.Contains(q.Tags, t) }) {
		return false
	}
	if q.TargetFrom != nil && g.Timebound.TargetDate.Before(*q.TargetFrom) {
		return false
	}
	if q.TargetTo != nil && g.Timebound.TargetDate.After(*q.TargetTo) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		hay := strings.ToLower(g.Title + "\n" + g.Description + "\n" + strings.Join(g.Tags, " "))
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	return true
}

// SortGoals orders goals in place by field and direction. Ties fall back to ID ascending.
func SortGoals(goals []models.Goal, field SortField, dir SortDirection) {
	slices.SortStableFunc(goals, func(a, b models.Goal) int {
		c := compareGoals(a, b, field)
		if dir == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func compareGoals(a, b models.Goal, field SortField) int {
	switch field {
	case SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortTitle:
		return strings.Compare(a.Title, b.Title)
	case SortPriority:
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	case SortStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case SortTargetDate:
		return a.Timebound.TargetDate.Compare(b.Timebound.TargetDate)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// Page slices an already sorted list down to the requested page.
func Page[T any](items []T, q GoalQuery) []T {
	start := min(q.Offset(), len(items))
	end := min(start+q.Limit, len(items))
	return items[start:end]
}
