package audit

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *memorySink) Log(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink, nil)

	d.Dispatch(Event{Action: "appointment_created"})
	d.Dispatch(Event{Action: "appointment_cancelled"})
	d.Close()

	require.Len(t, sink.events, 2)
	assert.Equal(t, "appointment_created", sink.events[0].Action)
	assert.Equal(t, "appointment_cancelled", sink.events[1].Action)
}

func TestDispatcherLogsSinkErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sink := &memorySink{err: errors.New("db down")}

	d := NewDispatcher(sink, zap.New(core))
	d.Dispatch(Event{Action: "appointment_created"})
	d.Close()

	assert.Equal(t, 1, logs.FilterMessage("audit write failed").Len())
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	id := uint(9)

	require.NoError(t, NewZapSink(zap.New(core)).Log(context.Background(), Event{
		UserID:   &id,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &id,
		Metadata: map[string]any{"status": "pending"},
	}))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "appointment_cancelled", fields["action"])
	assert.Equal(t, `{"status":"pending"}`, fields["metadata"])
}

func TestGormLogger(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, New(db).Log(context.Background(), Event{Action: "session_opened", Entity: "session"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
