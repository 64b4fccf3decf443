package libpos

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// A Monitor periodically classifies the held session and keeps it either
// actively valid or signed out. Near expiry it performs a single refresh
// attempt per tick; past the buffered expiry boundary it signs out.
//
// A single Monitor instance is meant to live for the whole authenticated
// lifetime of the terminal, armed on login and disarmed on logout.
type Monitor struct {
	client   SessionClient
	interval time.Duration
	log      logrus.FieldLogger

	onExpired   func()
	onRefreshed func(Session)

	inflight atomic.Bool

	mu    sync.Mutex
	armed bool
	done  chan struct{}
}

// A MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithLogger overrides the monitor's logger.
func WithLogger(log logrus.FieldLogger) MonitorOption {
	return func(m *Monitor) {
		m.log = log
	}
}

// OnExpired registers the hook invoked after an expired session has been
// signed out. The terminal uses it to notify the operator and fall back to
// the login flow.
func OnExpired(fn func()) MonitorOption {
	return func(m *Monitor) {
		m.onExpired = fn
	}
}

// OnRefreshed registers the hook invoked after a successful proactive
// refresh. The terminal uses it to persist the new tokens.
func OnRefreshed(fn func(Session)) MonitorOption {
	return func(m *Monitor) {
		m.onRefreshed = fn
	}
}

// NewMonitor returns a new Monitor polling the given client.
func NewMonitor(client SessionClient, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		client:   client,
		interval: PollInterval,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Arm starts the polling loop. Arming an armed monitor is a no-op.
func (m *Monitor) Arm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.armed {
		return
	}
	m.armed = true
	m.done = make(chan struct{})
	go m.loop(m.done)
}

// Disarm stops the polling loop. Disarming a disarmed monitor is a no-op.
func (m *Monitor) Disarm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.armed {
		return
	}
	m.armed = false
	close(m.done)
}

// Armed returns true while the polling loop is running.
func (m *Monitor) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed
}

// HandleSessionChange arms or disarms the monitor according to the new
// session. It is meant to be registered with Client.OnSessionChange so
// logins and logouts happening outside the monitor's own control flow
// still tear the timer up or down.
func (m *Monitor) HandleSessionChange(session Session) {
	if session.Defined() {
		m.Arm()
		return
	}
	m.Disarm()
}

func (m *Monitor) loop(done chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.Tick(time.Now())
		}
	}
}

// Tick performs a single status check against the given time. When a tick
// is still pending (a refresh or sign-out call in flight), the overlapping
// invocation is skipped so no duplicate refresh or sign-out is issued.
//
// All failures are terminal-local: they are logged and resolved by the
// reclassification of a later tick, never propagated.
func (m *Monitor) Tick(now time.Time) {
	if !m.inflight.CompareAndSwap(false, true) {
		return
	}
	defer m.inflight.Store(false)

	session := m.client.Session()
	switch session.StatusAt(now) {
	case StatusExpired:
		m.expire()
	case StatusNearExpiry:
		m.refresh(session, now)
	}
}

// refresh performs at most one refresh attempt. There is no retry loop: on
// failure the next tick reclassifies and the expiry buffer eventually
// forces a sign-out.
func (m *Monitor) refresh(session Session, now time.Time) {
	refreshed, err := m.client.RefreshSession()
	if err != nil {
		m.log.WithError(err).WithField("expires_in", session.ExpiresIn(now)).
			Warn("could not refresh session")
		return
	}

	m.log.WithField("expires_at", time.Unix(refreshed.ExpiresAt, 0)).Info("session refreshed")
	if m.onRefreshed != nil {
		m.onRefreshed(refreshed)
	}
}

func (m *Monitor) expire() {
	if err := m.client.SignOut(); err != nil {
		// The client clears its local session regardless, only the remote
		// revoke can fail here.
		m.log.WithError(err).Warn("could not revoke session")
	}

	m.Disarm()
	if m.onExpired != nil {
		m.onExpired()
	}
}
