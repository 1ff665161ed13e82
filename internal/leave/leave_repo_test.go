package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func TestRepository_HasOverlappingPeriod_InclusiveBounds(t *testing.T) {
	gdb, mock := newGormMock(t)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	excluded := "leave-9"

	// A stored range touching either endpoint counts, so the new end is compared
	// with <= against stored starts and the new start with >= against stored ends.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "leave_requests" WHERE employee_id = \$1 AND status IN \(\$2,\$3,\$4\) AND \(start_date <= \$5 AND end_date >= \$6\) AND id <> \$7`).
		WithArgs("emp-1", "PENDING_RM", "PENDING_HR", "APPROVED", end, start, excluded).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	overlap, err := leave.NewRepository(gdb).HasOverlappingPeriod(context.Background(), "emp-1", start, end, &excluded)

	assert.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}
