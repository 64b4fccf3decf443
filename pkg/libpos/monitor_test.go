package libpos_test

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"washpos/pkg/libpos"
)

// fakeSessionClient implements libpos.SessionClient for monitor tests.
type fakeSessionClient struct {
	mu      sync.Mutex
	session libpos.Session

	refreshed  libpos.Session
	refreshErr error
	signOutErr error

	refreshCalls int
	signOutCalls int

	refreshStarted chan struct{}
	refreshRelease chan struct{}
}

func (c *fakeSessionClient) Session() libpos.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *fakeSessionClient) SetSession(session libpos.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

func (c *fakeSessionClient) RefreshSession() (libpos.Session, error) {
	c.mu.Lock()
	c.refreshCalls++
	c.mu.Unlock()

	if c.refreshStarted != nil {
		c.refreshStarted <- struct{}{}
		<-c.refreshRelease
	}

	if c.refreshErr != nil {
		return libpos.Session{}, c.refreshErr
	}
	c.SetSession(c.refreshed)
	return c.refreshed, nil
}

func (c *fakeSessionClient) SignOut() error {
	c.mu.Lock()
	c.signOutCalls++
	c.mu.Unlock()

	c.SetSession(libpos.Session{})
	return c.signOutErr
}

func session(now time.Time, remaining int64) libpos.Session {
	return libpos.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    now.Unix() + remaining,
	}
}

func TestMonitorTickValid(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeSessionClient{session: session(now, 400)}

	m := libpos.NewMonitor(client)
	m.Tick(now)

	assert.Zero(t, client.refreshCalls)
	assert.Zero(t, client.signOutCalls)
}

func TestMonitorTickNearExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeSessionClient{
		session:   session(now, 120),
		refreshed: session(now, 3600),
	}

	var persisted []libpos.Session
	m := libpos.NewMonitor(client, libpos.OnRefreshed(func(s libpos.Session) {
		persisted = append(persisted, s)
	}))
	m.Tick(now)

	assert.Equal(t, 1, client.refreshCalls)
	assert.Zero(t, client.signOutCalls)
	assert.Equal(t, []libpos.Session{client.refreshed}, persisted)
	assert.Equal(t, libpos.StatusValid, client.Session().StatusAt(now))
}

func TestMonitorTickExpired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeSessionClient{session: session(now, 30)} // inside the expiry buffer

	var notified int
	m := libpos.NewMonitor(client, libpos.OnExpired(func() {
		notified++
	}))
	m.Tick(now)

	assert.Zero(t, client.refreshCalls)
	assert.Equal(t, 1, client.signOutCalls)
	assert.Equal(t, 1, notified)
	assert.False(t, client.Session().Defined())
	assert.False(t, m.Armed())
}

func TestMonitorTickAbsentSession(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeSessionClient{}

	var notified int
	m := libpos.NewMonitor(client, libpos.OnExpired(func() {
		notified++
	}))
	m.Tick(now)

	assert.Equal(t, 1, client.signOutCalls)
	assert.Equal(t, 1, notified)
}

func TestMonitorTickSignOutFailure(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeSessionClient{
		session:    session(now, 10),
		signOutErr: errors.New("network down"),
	}

	var notified int
	m := libpos.NewMonitor(client, libpos.OnExpired(func() {
		notified++
	}))
	m.Tick(now)

	// The remote revoke failed but the local session is gone and the
	// operator got notified anyway.
	assert.Equal(t, 1, notified)
	assert.False(t, client.Session().Defined())
}

func TestMonitorRefreshFailureThenExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeSessionClient{
		session:    session(now, 80),
		refreshErr: errors.New("invalid refresh token"),
	}

	var notified int
	m := libpos.NewMonitor(client, libpos.OnExpired(func() {
		notified++
	}))

	// Near expiry, the single refresh attempt fails and nothing else happens.
	m.Tick(now)
	assert.Equal(t, 1, client.refreshCalls)
	assert.Zero(t, client.signOutCalls)
	assert.Zero(t, notified)

	// One poll interval later the clock has crossed the buffer boundary:
	// the next tick reclassifies as expired and signs out.
	m.Tick(now.Add(30 * time.Second))
	assert.Equal(t, 1, client.refreshCalls)
	assert.Equal(t, 1, client.signOutCalls)
	assert.Equal(t, 1, notified)
}

func TestMonitorTickReentrancy(t *testing.T) {
	now := time.Unix(1700000000, 0)
	client := &fakeSessionClient{
		session:        session(now, 120),
		refreshed:      session(now, 3600),
		refreshStarted: make(chan struct{}),
		refreshRelease: make(chan struct{}),
	}

	m := libpos.NewMonitor(client)

	done := make(chan struct{})
	go func() {
		m.Tick(now)
		close(done)
	}()
	<-client.refreshStarted // first tick is blocked inside RefreshSession

	// The timer fires again while the previous tick is still pending: the
	// invocation must be skipped.
	m.Tick(now)
	assert.Equal(t, 1, client.refreshCalls)

	close(client.refreshRelease)
	<-done

	assert.Equal(t, 1, client.refreshCalls)
	assert.Zero(t, client.signOutCalls)
}

func TestMonitorArmDisarm(t *testing.T) {
	now := time.Now()
	client := &fakeSessionClient{session: session(now, 3600)}

	m := libpos.NewMonitor(client, libpos.WithInterval(time.Millisecond))
	assert.False(t, m.Armed())

	m.Arm()
	m.Arm() // no-op
	assert.True(t, m.Armed())

	time.Sleep(20 * time.Millisecond) // let a few ticks through

	m.Disarm()
	m.Disarm() // no-op
	assert.False(t, m.Armed())
}

func TestMonitorHandleSessionChange(t *testing.T) {
	now := time.Now()
	client := &fakeSessionClient{}

	m := libpos.NewMonitor(client, libpos.WithInterval(time.Hour))

	m.HandleSessionChange(session(now, 3600))
	assert.True(t, m.Armed())

	m.HandleSessionChange(libpos.Session{})
	assert.False(t, m.Armed())
}
