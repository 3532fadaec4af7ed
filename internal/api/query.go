package api

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/store"
	"github.com/starford/goalpost/internal/validate"
)

const dateLayout = "2006-01-02"

// parseGoalQuery reads the goal list filter, ordering and paging parameters.
// status, priority and tags accept comma-separated or repeated values.
func parseGoalQuery(values url.Values) (store.GoalQuery, error) {
	errs := validation.Errors{}
	q := store.GoalQuery{
		Category: strings.TrimSpace(values.Get("category")),
		OwnerID:  strings.TrimSpace(values.Get("ownerId")),
		Tags:     listParam(values, "tags"),
		Search:   strings.TrimSpace(values.Get("search")),
	}

	statuses := listParam(values, "status")
	errs["status"] = validation.Validate(statuses, validation.Each(validation.In(stringsOf(models.GoalStatuses())...)))
	for _, s := range statuses {
		q.Statuses = append(q.Statuses, models.GoalStatus(s))
	}
	priorities := listParam(values, "priority")
	errs["priority"] = validation.Validate(priorities, validation.Each(validation.In(stringsOf(models.Priorities())...)))
	for _, p := range priorities {
		q.Priorities = append(q.Priorities, models.Priority(p))
	}

	sortField := values.Get("sortField")
	errs["sortField"] = validation.Validate(sortField, validation.In(stringsOf(store.SortFields())...))
	q.SortField = store.SortField(sortField)
	sortDirection := strings.ToLower(values.Get("sortDirection"))
	errs["sortDirection"] = validation.Validate(sortDirection, validation.In(string(store.Asc), string(store.Desc)))
	q.SortDirection = store.SortDirection(sortDirection)

	q.Page, errs["page"] = intParam(values, "page")
	q.Limit, errs["limit"] = intParam(values, "limit")
	if errs["page"] == nil {
		errs["page"] = validation.Validate(q.Page, validation.Min(1), validation.Max(store.MaxPage))
	}
	if errs["limit"] == nil {
		errs["limit"] = validation.Validate(q.Limit, validation.Min(1))
	}

	q.TargetFrom, errs["startDate"] = timeParam(values, "startDate", false)
	q.TargetTo, errs["endDate"] = timeParam(values, "endDate", true)
	if q.TargetFrom != nil && q.TargetTo != nil && q.TargetTo.Before(*q.TargetFrom) {
		errs["endDate"] = errors.New("must not be before startDate")
	}

	if raw := values.Get("includeDeleted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs["includeDeleted"] = errors.New("must be true or false")
		}
		q.IncludeDeleted = v
	}

	if err := validate.Fields(errs); err != nil {
		return store.GoalQuery{}, err
	}
	return q.WithDefaults(), nil
}

// listParam collects repeated and comma-separated values, dropping blanks.
func listParam(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// intParam parses an optional integer; absent means 0.
func intParam(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	if n == 0 {
		return 0, errors.New("must be no less than 1")
	}
	return n, nil
}

// timeParam parses an optional RFC 3339 timestamp or YYYY-MM-DD date. A bare
// date used as an upper bound covers the whole day.
func timeParam(values url.Values, key string, endOfDay bool) (*time.Time, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errors.New("must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func stringsOf[S ~string](s []S) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}
