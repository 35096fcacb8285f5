package pushchan

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"

	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
)

type fakeConn struct {
	lock    sync.Mutex
	reads   chan []byte
	written []interface{}
	closed  bool
}

func newFakeConn(msgs ...[]byte) *fakeConn {
	c := &fakeConn{reads: make(chan []byte, len(msgs)+1)}
	for _, m := range msgs {
		c.reads <- m
	}
	return c
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	m, ok := <-c.reads
	if !ok {
		return 0, nil, errors.New("closed")
	}
	return 1, m, nil
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.closed {
		c.closed = true
		close(c.reads)
	}
	return nil
}

type fakeBackOff struct {
	lock   sync.Mutex
	nexts  int
	resets int
	wait   time.Duration
}

func (b *fakeBackOff) NextBackOff() time.Duration {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.nexts++
	return b.wait
}

func (b *fakeBackOff) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.resets++
}

func (b *fakeBackOff) counts() (int, int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.nexts, b.resets
}

func useFakeBackOff(c *Client) *fakeBackOff {
	bo := &fakeBackOff{wait: time.Millisecond}
	c.newBackOff = func() backoff.BackOff { return bo }
	return bo
}

func TestRun_JoinsAndDelivers(t *testing.T) {
	payload, _ := json.Marshal(map[string]string{"id": "job1", "status": "completed"})
	conn := newFakeConn(payload)

	received := make(chan *reconcile.Payload, 1)
	connects := make(chan bool, 5)
	c := NewClient("ws://x/subscribe",
		func(p *reconcile.Payload) { received <- p },
		func() { connects <- true })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dialed := false
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		if dialed {
			cancel()
			return nil, errors.New("no more")
		}
		dialed = true
		return conn, nil
	}

	done := make(chan bool)
	go func() { c.Run(ctx, "job1"); close(done) }()

	select {
	case p := <-received:
		assert.Equal(t, "job1", p.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no payload")
	}
	<-connects
	cancel()
	<-done

	conn.lock.Lock()
	defer conn.lock.Unlock()
	assert.Equal(t, []interface{}{joinMsg{Room: "job1"}}, conn.written)
}

func TestRun_ReconnectsAndRejoins(t *testing.T) {
	conn1 := newFakeConn()
	conn1.Close() // first connection drops immediately
	payload, _ := json.Marshal(map[string]string{"status": "completed"})
	conn2 := newFakeConn(payload)

	received := make(chan *reconcile.Payload, 1)
	connects := make(chan bool, 5)
	c := NewClient("ws://x/subscribe",
		func(p *reconcile.Payload) { received <- p },
		func() { connects <- true })
	useFakeBackOff(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conns := []Conn{conn1, conn2}
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		if len(conns) == 0 {
			cancel()
			return nil, errors.New("no more")
		}
		res := conns[0]
		conns = conns[1:]
		return res, nil
	}

	done := make(chan bool)
	go func() { c.Run(ctx, "job1"); close(done) }()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("no payload after reconnect")
	}
	// join ran on both connections
	<-connects
	<-connects
	cancel()
	<-done

	conn2.lock.Lock()
	defer conn2.lock.Unlock()
	assert.Equal(t, []interface{}{joinMsg{Room: "job1"}}, conn2.written)
}

func TestRun_BacksOffAfterShortLivedConn(t *testing.T) {
	c := NewClient("ws://x", nil, nil)
	bo := useFakeBackOff(c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dials := 0
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		dials++
		if dials > 3 {
			cancel()
			return nil, errors.New("no more")
		}
		conn := newFakeConn()
		conn.Close() // server drops it right away
		return conn, nil
	}
	done := make(chan bool)
	go func() { c.Run(ctx, "job1"); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("did not stop")
	}
	nexts, resets := bo.counts()
	assert.GreaterOrEqual(t, nexts, 3)
	assert.Equal(t, 0, resets)
}

func TestRun_ResetsAfterStableConn(t *testing.T) {
	c := NewClient("ws://x", nil, nil)
	c.MinStable = 0
	bo := useFakeBackOff(c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dialed := false
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		if dialed {
			cancel()
			return nil, errors.New("no more")
		}
		dialed = true
		conn := newFakeConn()
		conn.Close()
		return conn, nil
	}
	done := make(chan bool)
	go func() { c.Run(ctx, "job1"); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("did not stop")
	}
	_, resets := bo.counts()
	assert.Equal(t, 1, resets)
}

func TestRun_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient("ws://x", nil, nil)
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		t.Fatal("dial after cancel")
		return nil, nil
	}
	done := make(chan bool)
	go func() { c.Run(ctx, "job1"); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("did not stop")
	}
}

func TestRun_SkipsBadPayload(t *testing.T) {
	good, _ := json.Marshal(map[string]string{"status": "completed"})
	conn := newFakeConn([]byte("{bad json"), good)

	received := make(chan *reconcile.Payload, 2)
	c := NewClient("ws://x", func(p *reconcile.Payload) { received <- p }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dialed := false
	c.Dial = func(ctx context.Context, url string) (Conn, error) {
		if dialed {
			cancel()
			return nil, errors.New("no more")
		}
		dialed = true
		return conn, nil
	}
	go c.Run(ctx, "job1")

	select {
	case p := <-received:
		assert.Equal(t, "completed", p.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no payload")
	}
}
