package goroutine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type captureLogger struct {
	mu   sync.Mutex
	msgs []string
	done chan struct{}
}

func (l *captureLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	close(l.done)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := &captureLogger{done: make(chan struct{})}
	rh := NewRecoveryHandler(log)

	rh.SafeGo(func() { panic("boom") })

	select {
	case <-log.done:
	case <-time.After(time.Second):
		t.Fatal("panic не был перехвачен")
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Len(t, log.msgs, 1)
	assert.Contains(t, log.msgs[0], "boom")
}
