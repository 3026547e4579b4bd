package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/adamanr/portal_service/internal/config"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// RedisInterface defines the interface for Redis operations.
type RedisInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// MockDB represents a mock database connection.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	rows, _ := callArgs.Get(0).(pgx.Rows)
	return rows, callArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Row)
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	mockArgs := append([]interface{}{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

// Fields builds text-typed field descriptions for the given column names.
func Fields(names ...string) []pgconn.FieldDescription {
	descs := make([]pgconn.FieldDescription, len(names))
	for i, name := range names {
		descs[i] = pgconn.FieldDescription{Name: name, DataTypeOID: 25}
	}
	return descs
}

// assign copies a mock value into a Scan destination, allocating pointer
// targets and converting between identically-kinded types.
func assign(dest, val interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("scan destination %T is not a pointer", dest)
	}
	target := dv.Elem()

	if val == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	v := reflect.ValueOf(val)
	if v.Type().AssignableTo(target.Type()) {
		target.Set(v)
		return nil
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		v = v.Elem()
	}

	if target.Kind() == reflect.Ptr {
		elem := target.Type().Elem()
		if v.Kind() == elem.Kind() && v.Type().ConvertibleTo(elem) {
			p := reflect.New(elem)
			p.Elem().Set(v.Convert(elem))
			target.Set(p)
			return nil
		}
	}

	if v.Kind() == target.Kind() && v.Type().ConvertibleTo(target.Type()) {
		target.Set(v.Convert(target.Type()))
		return nil
	}

	if target.Kind() == reflect.Interface {
		target.Set(v)
		return nil
	}

	return fmt.Errorf("cannot scan %T into %T", val, dest)
}

func scanInto(values []interface{}, dest []interface{}) error {
	if len(values) != len(dest) {
		return fmt.Errorf("expected %d destinations, got %d", len(values), len(dest))
	}

	for i, val := range values {
		if err := assign(dest[i], val); err != nil {
			return err
		}
	}
	return nil
}

// MockRow represents a mock database row.
type MockRow struct {
	data []interface{}
	err  error
}

func NewMockRow(data []interface{}, err error) *MockRow {
	return &MockRow{
		data: data,
		err:  err,
	}
}

// Scan scans the row data into the provided destinations.
func (m *MockRow) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	return scanInto(m.data, dest)
}

// MockRows represents mock database rows.
type MockRows struct {
	rows       [][]interface{}
	pos        int
	err        error
	fieldDescs []pgconn.FieldDescription
	closed     bool
}

func NewMockRows(rows [][]interface{}, err error, fieldDescs []pgconn.FieldDescription) *MockRows {
	return &MockRows{
		rows:       rows,
		pos:        -1,
		err:        err,
		fieldDescs: fieldDescs,
	}
}

func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription {
	return m.fieldDescs
}

func (m *MockRows) Next() bool {
	if m.err != nil {
		return false
	}
	m.pos++
	return m.pos < len(m.rows)
}

func (m *MockRows) Close() {
	m.closed = true
}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.pos < 0 || m.pos >= len(m.rows) {
		return fmt.Errorf("scan called without a current row")
	}
	return scanInto(m.rows[m.pos], dest)
}

func (m *MockRows) Err() error {
	return m.err
}

func (m *MockRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("SELECT %d", len(m.rows)))
}

func (m *MockRows) Values() ([]interface{}, error) {
	if m.pos < 0 || m.pos >= len(m.rows) {
		return nil, nil
	}
	return m.rows[m.pos], nil
}

func (m *MockRows) RawValues() [][]byte {
	return nil
}

func (m *MockRows) Conn() *pgx.Conn {
	return nil
}

// MockRedis represents a mock Redis client.
type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)

	cmd := redis.NewStatusCmd(ctx)
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("OK")
	}

	return cmd
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)

	cmd := redis.NewStringCmd(ctx)
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else if len(args) > 1 {
		cmd.SetVal(args.String(1))
	}

	return cmd
}

func (m *MockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)

	cmd := redis.NewIntCmd(ctx)
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(int64(len(keys)))
	}

	return cmd
}

func NewMockCommandTag(verb string, rowsAffected int64) pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("%s %d", verb, rowsAffected))
}

// fakePusher records payloads pushed to live streams.
type fakePusher struct {
	connected map[string]bool
	sent      map[string][]any
}

func newFakePusher(connected ...string) *fakePusher {
	p := &fakePusher{connected: map[string]bool{}, sent: map[string][]any{}}
	for _, id := range connected {
		p.connected[id] = true
	}
	return p
}

func (p *fakePusher) Send(userID string, payload any) bool {
	if !p.connected[userID] {
		return false
	}
	p.sent[userID] = append(p.sent[userID], payload)
	return true
}

// Test helper functions.
func CreateTestDependencies(mockDB Querier, mockRedis RedisInterface) *Dependens {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret-key"
	cfg.Session.TTL = time.Hour

	return &Dependens{
		DB:       mockDB,
		WriteDB:  mockDB,
		Redis:    mockRedis,
		Logger:   logger,
		Config:   cfg,
		Validate: validator.New(),
	}
}

// fixedClock pins a controller clock for deterministic timestamps.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func StringPtr(s string) *string {
	return &s
}

func Int64Ptr(i int64) *int64 {
	return &i
}
