package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a Service backed by a websocket leaderboard server.
// It dials lazily and redials after any failure.
type Client struct {
	url     string
	player  string
	timeout time.Duration
	dialer  *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

var _ Service = (*Client)(nil)

// NewClient creates a client for player against a ws:// or wss:// url.
func NewClient(url, player string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:     url,
		player:  player,
		timeout: timeout,
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
	}
}

// SubmitScore implements Service.
func (c *Client) SubmitScore(ctx context.Context, score int) error {
	_, err := c.roundTrip(ctx, Request{Type: TypeSubmit, Player: c.player, Score: score})
	return err
}

// LoadTopEntry implements Service.
func (c *Client) LoadTopEntry(ctx context.Context) (int, bool, error) {
	resp, err := c.roundTrip(ctx, Request{Type: TypeTop, Player: c.player})
	if err != nil {
		return 0, false, err
	}
	return resp.Score, resp.Found, nil
}

// LoadRank implements Service.
func (c *Client) LoadRank(ctx context.Context) (int, bool, error) {
	resp, err := c.roundTrip(ctx, Request{Type: TypeRank, Player: c.player})
	if err != nil {
		return 0, false, err
	}
	return resp.Rank, resp.Found, nil
}

// Close closes the connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// roundTrip sends req and waits for the answer. A kept-alive connection
// may have been dropped by the server while idle, so a failure on a reused
// connection is retried once on a fresh one. Requests are idempotent.
func (c *Client) roundTrip(ctx context.Context, req Request) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reused := c.conn != nil
	resp, err := c.exchange(ctx, req)
	if err != nil && reused && ctx.Err() == nil {
		resp, err = c.exchange(ctx, req)
	}
	if err != nil {
		return Response{}, err
	}
	if resp.Type == TypeError {
		return Response{}, errors.New("leaderboard: server: " + resp.Error)
	}
	return resp, nil
}

// exchange performs one request on the current connection, dialing first
// if there is none. Any transport error closes the connection.
func (c *Client) exchange(ctx context.Context, req Request) (Response, error) {
	if c.conn == nil {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			return Response{}, fmt.Errorf("leaderboard: dial %s: %w", c.url, err)
		}
		c.conn = conn
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	var resp Response
	err := c.conn.WriteJSON(req)
	if err == nil {
		err = c.conn.ReadJSON(&resp)
	}
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return Response{}, fmt.Errorf("leaderboard: %s: %w", req.Type, err)
	}
	return resp, nil
}
