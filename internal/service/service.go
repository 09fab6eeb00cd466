// Package service holds the scheduling engine: entity orchestration, the
// conflict detector, and the batch lifecycle manager.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/dinacademy/batch-scheduler-api/pkg/errors"
	"github.com/dinacademy/batch-scheduler-api/pkg/timeutil"
)

// requestError translates a validator failure into the domain taxonomy:
// absent required fields surface as MISSING_FIELD, anything else as a
// validation failure.
func requestError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, f := range verrs {
			if f.Tag() == "required" {
				return appErrors.Clone(appErrors.ErrMissingField, fmt.Sprintf("%s is required", strings.ToLower(f.Field())))
			}
		}
		return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid payload")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "validation failed")
}

// normalizeDays deduplicates day names preserving caller order and rejects
// anything outside the seven weekday names.
func normalizeDays(days []string) ([]string, error) {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, day := range days {
		if !timeutil.IsWeekday(day) {
			return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("invalid day value %q", day))
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out, nil
}

// normalizeTeacherIDs deduplicates ids preserving order.
func normalizeTeacherIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
