package controllers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var ActivityLogFieldDescriptions = Fields("id", "user_id", "action", "timestamp", "user_name", "kode_pegawai")

func sqlHas(sql, part string) bool {
	return strings.Contains(sql, part)
}

func sqlContains(parts ...string) interface{} {
	return mock.MatchedBy(func(sql string) bool {
		for _, p := range parts {
			if !sqlHas(sql, p) {
				return false
			}
		}
		return true
	})
}

func activityRows() *MockRows {
	ts := time.Date(2025, 5, 10, 8, 30, 0, 0, time.UTC)

	return NewMockRows([][]interface{}{
		{int64(2), int64(5), "logout", ts, "Budi", "EMP005"},
		{int64(1), nil, "system cleanup", ts.Add(-time.Hour), nil, nil},
	}, nil, ActivityLogFieldDescriptions)
}

func TestActivityLogController_GetActivityLogs(t *testing.T) {
	t.Run("all logs", func(t *testing.T) {
		mockDB := new(MockDB)
		controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))

		mockDB.On("Query", mock.Anything, sqlContains("LEFT JOIN users", `ORDER BY l."timestamp" DESC, l.id DESC`)).
			Return(activityRows(), nil)

		logs, err := controller.GetActivityLogs(context.Background(), entity.ActivityLogFilter{})
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, Int64Ptr(5), logs[0].UserID)
		assert.Equal(t, StringPtr("Budi"), logs[0].UserName)
		assert.Nil(t, logs[1].UserID)
		assert.Nil(t, logs[1].KodePegawai)
		mockDB.AssertExpectations(t)
	})

	t.Run("filtered by user with limit", func(t *testing.T) {
		mockDB := new(MockDB)
		controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))

		mockDB.On("Query", mock.Anything, sqlContains("l.user_id = $1", "LIMIT 20"), int64(5)).
			Return(NewMockRows(nil, nil, ActivityLogFieldDescriptions), nil)

		logs, err := controller.GetActivityLogs(context.Background(), entity.ActivityLogFilter{UserID: Int64Ptr(5), Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, logs)
		mockDB.AssertExpectations(t)
	})

	t.Run("query error", func(t *testing.T) {
		mockDB := new(MockDB)
		controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))

		mockDB.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := controller.GetActivityLogs(context.Background(), entity.ActivityLogFilter{})
		assert.Error(t, err)
	})
}

func TestActivityLogController_DeleteAll(t *testing.T) {
	mockDB := new(MockDB)
	controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))

	mockDB.On("Exec", mock.Anything, "DELETE FROM activity_logs").Return(NewMockCommandTag("DELETE", 12), nil)

	deleted, err := controller.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	mockDB.AssertExpectations(t)
}

func TestActivityLogController_AutoDelete(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		cutoff time.Time
	}{
		{
			name:   "mid month",
			now:    time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC),
			cutoff: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "across year boundary",
			now:    time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			cutoff: time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "month end normalizes forward",
			now:    time.Date(2025, 4, 30, 12, 0, 0, 0, time.UTC),
			cutoff: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDB)
			controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))
			controller.now = fixedClock(tt.now)

			mockDB.On("Exec", mock.Anything, sqlContains(`"timestamp" < $1`), tt.cutoff).Return(NewMockCommandTag("DELETE", 4), nil)

			assert.Equal(t, tt.cutoff, controller.Cutoff())

			deleted, err := controller.AutoDelete(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(4), deleted)
			mockDB.AssertExpectations(t)
		})
	}
}

func TestActivityLogController_AutoDeleteError(t *testing.T) {
	mockDB := new(MockDB)
	controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))

	mockDB.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return(NewMockCommandTag("DELETE", 0), errors.New("deadlock"))

	deleted, err := controller.AutoDelete(context.Background())
	assert.Error(t, err)
	assert.Zero(t, deleted)
}

func TestActivityLogController_RecordIgnoresFailures(t *testing.T) {
	mockDB := new(MockDB)
	controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	controller.now = fixedClock(now)

	mockDB.On("Exec", mock.Anything, mock.MatchedBy(isActivityInsert), Int64Ptr(8), "login", now).
		Return(NewMockCommandTag("INSERT 0", 0), errors.New("insert failed"))

	assert.NotPanics(t, func() {
		controller.Record(context.Background(), Int64Ptr(8), "login")
	})
	mockDB.AssertExpectations(t)
}

func TestActivityLogController_Export(t *testing.T) {
	mockDB := new(MockDB)
	controller := NewActivityLogController(CreateTestDependencies(mockDB, new(MockRedis)))

	mockDB.On("Query", mock.Anything, mock.Anything).Return(activityRows(), nil)

	var buf bytes.Buffer
	require.NoError(t, controller.Export(context.Background(), entity.ActivityLogFilter{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "User ID", "Kode Pegawai", "Nama", "Aksi", "Waktu"}, rows[0])
	assert.Equal(t, []string{"2", "5", "EMP005", "Budi", "logout", "2025-05-10 08:30:00"}, rows[1])
	assert.Equal(t, "system cleanup", rows[2][4])
}
