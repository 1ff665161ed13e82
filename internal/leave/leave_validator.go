package leave

import (
	"strings"
	"time"
	"unicode/utf8"

	"go-leave/internal/domain"
	leaveerrors "go-leave/internal/leave/errors"
)

const (
	DateLayout = "2006-01-02"

	MinReasonLength = 10
	// sick leave above this many days needs a supporting document
	SickDocumentThreshold = 3
)

type ValidateInput struct {
	LeaveType   domain.LeaveType
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
	HasDocument bool
}

// Validator applies the application-time business rules. It has no side effects.
type Validator struct {
	now func() time.Time
}

// NewValidator uses now as the clock; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate returns the inclusive calendar-day count of the request.
func (v *Validator) Validate(in ValidateInput) (int, error) {
	if !in.LeaveType.Valid() {
		return 0, leaveerrors.ErrInvalidLeaveType
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Reason)) < MinReasonLength {
		return 0, leaveerrors.ErrReasonTooShort
	}

	start, end := DateOnly(in.StartDate), DateOnly(in.EndDate)
	if start.After(end) {
		return 0, leaveerrors.ErrInvalidDateRange
	}

	today := DateOnly(v.now())
	if start.Before(today) {
		return 0, leaveerrors.ErrStartDateInPast
	}

	totalDays := TotalDays(start, end)
	if totalDays == 2 && start.Weekday() == time.Saturday && end.Weekday() == time.Sunday {
		return 0, leaveerrors.ErrWeekendOnly
	}

	switch in.LeaveType {
	case domain.LeaveTypeAnnual:
		if start.Before(today.AddDate(0, 0, 1)) {
			return 0, leaveerrors.ErrAnnualNoticeRequired
		}
	case domain.LeaveTypeSick:
		if totalDays > SickDocumentThreshold && !in.HasDocument {
			return 0, leaveerrors.ErrSickDocumentRequired
		}
	}

	return totalDays, nil
}

// TotalDays counts calendar days in [start, end]. Weekends are included.
func TotalDays(start, end time.Time) int {
	s, e := DateOnly(start), DateOnly(end)
	return int(e.Sub(s).Hours()/24) + 1
}

// DateOnly drops the time of day, interpreting t in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// Now exposes the validator clock so callers stamp times consistently with validation.
func (v *Validator) Now() time.Time {
	return v.now()
}
