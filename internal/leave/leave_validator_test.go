package leave_test

import (
	"testing"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/stretchr/testify/assert"
)

// Wednesday 2026-03-04, mid-morning UTC.
var fixedNow = time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(leave.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTotalDays(t *testing.T) {
	start := day("2026-03-01")
	for offset := 0; offset < 400; offset += 7 {
		end := start.AddDate(0, 0, offset)
		assert.Equal(t, offset+1, leave.TotalDays(start, end), "offset %d", offset)
	}

	// weekends are counted
	assert.Equal(t, 7, leave.TotalDays(day("2026-03-09"), day("2026-03-15")))
	// time of day is ignored
	assert.Equal(t, 1, leave.TotalDays(day("2026-03-09").Add(23*time.Hour), day("2026-03-09")))
}

func TestValidator_Validate(t *testing.T) {
	v := leave.NewValidator(func() time.Time { return fixedNow })
	const reason = "Family event"

	cases := []struct {
		name    string
		in      leave.ValidateInput
		days    int
		wantErr error
	}{
		{
			name: "annual starting tomorrow",
			in:   leave.ValidateInput{LeaveType: domain.LeaveTypeAnnual, StartDate: day("2026-03-05"), EndDate: day("2026-03-07"), Reason: reason},
			days: 3,
		},
		{
			name:    "annual starting today lacks notice",
			in:      leave.ValidateInput{LeaveType: domain.LeaveTypeAnnual, StartDate: day("2026-03-04"), EndDate: day("2026-03-04"), Reason: reason},
			wantErr: leaveerrors.ErrAnnualNoticeRequired,
		},
		{
			name: "personal leave today is allowed",
			in:   leave.ValidateInput{LeaveType: domain.LeaveTypePersonal, StartDate: day("2026-03-04"), EndDate: day("2026-03-04"), Reason: reason},
			days: 1,
		},
		{
			name:    "start in the past",
			in:      leave.ValidateInput{LeaveType: domain.LeaveTypeSick, StartDate: day("2026-03-03"), EndDate: day("2026-03-04"), Reason: reason},
			wantErr: leaveerrors.ErrStartDateInPast,
		},
		{
			name:    "start after end",
			in:      leave.ValidateInput{LeaveType: domain.LeaveTypePersonal, StartDate: day("2026-03-10"), EndDate: day("2026-03-09"), Reason: reason},
			wantErr: leaveerrors.ErrInvalidDateRange,
		},
		{
			name:    "saturday to sunday only",
			in:      leave.ValidateInput{LeaveType: domain.LeaveTypePersonal, StartDate: day("2026-03-07"), EndDate: day("2026-03-08"), Reason: reason},
			wantErr: leaveerrors.ErrWeekendOnly,
		},
		{
			name: "longer span over a weekend",
			in:   leave.ValidateInput{LeaveType: domain.LeaveTypePersonal, StartDate: day("2026-03-07"), EndDate: day("2026-03-09"), Reason: reason},
			days: 3,
		},
		{
			name: "single saturday",
			in:   leave.ValidateInput{LeaveType: domain.LeaveTypePersonal, StartDate: day("2026-03-07"), EndDate: day("2026-03-07"), Reason: reason},
			days: 1,
		},
		{
			name:    "long sick leave without document",
			in:      leave.ValidateInput{LeaveType: domain.LeaveTypeSick, StartDate: day("2026-03-04"), EndDate: day("2026-03-07"), Reason: reason},
			wantErr: leaveerrors.ErrSickDocumentRequired,
		},
		{
			name: "long sick leave with document",
			in:   leave.ValidateInput{LeaveType: domain.LeaveTypeSick, StartDate: day("2026-03-04"), EndDate: day("2026-03-07"), Reason: reason, HasDocument: true},
			days: 4,
		},
		{
			name: "three day sick leave needs no document",
			in:   leave.ValidateInput{LeaveType: domain.LeaveTypeSick, StartDate: day("2026-03-04"), EndDate: day("2026-03-06"), Reason: reason},
			days: 3,
		},
		{
			name:    "reason too short",
			in:      leave.ValidateInput{LeaveType: domain.LeaveTypePersonal, StartDate: day("2026-03-05"), EndDate: day("2026-03-05"), Reason: "  short  "},
			wantErr: leaveerrors.ErrReasonTooShort,
		},
		{
			name:    "unknown leave type",
			in:      leave.ValidateInput{LeaveType: "SABBATICAL", StartDate: day("2026-03-05"), EndDate: day("2026-03-05"), Reason: reason},
			wantErr: leaveerrors.ErrInvalidLeaveType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := v.Validate(tc.in)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Zero(t, days)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.days, days)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := leave.ParseDate(" 2026-03-05 ")
	assert.NoError(t, err)
	assert.Equal(t, day("2026-03-05"), d)

	_, err = leave.ParseDate("05/03/2026")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
}
