package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sweeper struct{ calls int }

func (s *sweeper) Sweep() int {
	s.calls++
	return 2
}

type purger struct {
	calls int
	err   error
}

func (p *purger) PurgeExpired(context.Context) (int64, error) {
	p.calls++
	return 3, p.err
}

func TestJanitorRun(t *testing.T) {
	s, p := &sweeper{}, &purger{}
	NewJanitor(s, p, nil).Run()

	assert.Equal(t, 1, s.calls)
	assert.Equal(t, 1, p.calls)
}

func TestJanitorWithoutPurger(t *testing.T) {
	s := &sweeper{}
	NewJanitor(s, nil, nil).Run()
	assert.Equal(t, 1, s.calls)
}

func TestJanitorLogsPurgeFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	NewJanitor(nil, &purger{err: errors.New("db down")}, zap.New(core)).Run()

	entries := logs.FilterMessage("session purge failed").All()
	assert.Len(t, entries, 1)
}

func TestJanitorRejectsBadSchedule(t *testing.T) {
	assert.Error(t, NewJanitor(nil, nil, nil).Start("every now and then"))
}
