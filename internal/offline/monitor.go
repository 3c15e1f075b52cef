package offline

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Monitor maintains the current online/offline boolean. It is purely
// event-driven: something outside (a reachability probe, a platform
// signal) calls SetOnline on transitions and consumers read the latest
// value synchronously. Transient flaps are not buffered.
type Monitor struct {
	mu     sync.RWMutex
	online bool
	subs   []func(bool)
	log    *logrus.Logger
}

// NewMonitor creates a monitor with the given initial reachability.
func NewMonitor(initial bool, log *logrus.Logger) *Monitor {
	return &Monitor{online: initial, log: log}
}

// IsOnline returns the latest known reachability.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline records a reachability transition. Subscribers are notified
// only on actual changes.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := append(([]func(bool))(nil), m.subs...)
	m.mu.Unlock()

	if online {
		m.log.Info("connectivity restored")
	} else {
		m.log.Warn("connectivity lost")
	}
	for _, fn := range subs {
		fn(online)
	}
}

// OnChange registers a callback invoked on every transition.
func (m *Monitor) OnChange(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}
