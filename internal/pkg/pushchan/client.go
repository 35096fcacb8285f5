package pushchan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
)

//Conn is the websocket connection surface used by the client
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

//DialFunc opens a push channel connection
type DialFunc func(ctx context.Context, url string) (Conn, error)

type joinMsg struct {
	Room string `json:"room"`
}

//Client keeps one job's push subscription alive. On every (re)connect it
//re-joins the job's room and invokes the connect hook, so a result
//delivered while disconnected is picked up by an immediate status check
type Client struct {
	URL string
	//Dial opens the connection, replaceable in tests
	Dial DialFunc
	//MinStable is how long a connection must serve before the reconnect
	//backoff resets. A server that accepts and immediately drops
	//connections keeps escalating the wait
	MinStable time.Duration

	handler    func(*reconcile.Payload)
	onConnect  func()
	newBackOff func() backoff.BackOff
}

//NewClient creates a push channel client. handler receives every decoded
//payload, onConnect runs after each successful join
func NewClient(url string, handler func(*reconcile.Payload), onConnect func()) *Client {
	return &Client{URL: url, Dial: dialWebSocket, MinStable: 30 * time.Second,
		handler: handler, onConnect: onConnect, newBackOff: newExpBackOff}
}

func newExpBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0
	return bo
}

func dialWebSocket(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

//Run connects, joins the room and reads until ctx is done, reconnecting
//with exponential backoff. The backoff resets only after a connection
//survives MinStable, so short-lived connections keep escalating the wait
func (c *Client) Run(ctx context.Context, room string) {
	bo := c.newBackOff()
	for ctx.Err() == nil {
		conn, err := c.Dial(ctx, c.URL)
		if err != nil {
			cmdapp.Log.Warnf("Can't connect push channel: %v", err)
			if !c.sleep(ctx, bo.NextBackOff()) {
				return
			}
			continue
		}
		start := time.Now()
		if err := conn.WriteJSON(joinMsg{Room: room}); err != nil {
			cmdapp.Log.Warnf("Can't join room %s: %v", room, err)
			conn.Close()
		} else {
			cmdapp.Log.Infof("Joined room %s", room)
			if c.onConnect != nil {
				c.onConnect()
			}
			c.serve(ctx, conn)
		}
		if ctx.Err() != nil {
			return
		}
		if time.Since(start) >= c.MinStable {
			bo.Reset()
		}
		if !c.sleep(ctx, bo.NextBackOff()) {
			return
		}
	}
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	cmdapp.Log.Infof("Reconnect push channel in %v", d)
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (c *Client) serve(ctx context.Context, conn Conn) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
			conn.Close()
		}
	}()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			cmdapp.Log.Infof("Push channel closed: %v", err)
			return
		}
		var p reconcile.Payload
		if err := json.Unmarshal(msg, &p); err != nil {
			cmdapp.Log.Warnf("Can't decode push payload: %v", err)
			continue
		}
		if c.handler != nil {
			c.handler(&p)
		}
	}
}
