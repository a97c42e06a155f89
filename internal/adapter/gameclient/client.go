// Package gameclient talks to the game's JSON API over hertz.
package gameclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/raid"

	"github.com/cenkalti/backoff/v5"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/tidwall/gjson"
)

const SessionHeader = "X-Session-Token"

var errNoSession = errors.New("no active session")

// Doer is the part of the hertz client the adapter needs.
type Doer interface {
	Do(ctx context.Context, req *protocol.Request, resp *protocol.Response) error
}

type Config struct {
	BaseURL      string
	PageSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	ReadAttempts uint
	// BackOff paces retried reads. Nil means exponential from RetryInitial.
	BackOff      backoff.BackOff
	RetryInitial time.Duration
}

type Client struct {
	doer       Doer
	baseURL    string
	pageSize   int
	attempts   uint
	newBackOff func() backoff.BackOff

	mu    sync.Mutex
	token string
}

// New dials nothing; connections are opened on the first request.
func New(cfg Config) (*Client, error) {
	hc, err := client.NewClient(
		client.WithDialTimeout(orDuration(cfg.DialTimeout, 5*time.Second)),
		client.WithClientReadTimeout(orDuration(cfg.ReadTimeout, 20*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("create hertz client: %w", err)
	}
	return NewWithDoer(hc, cfg), nil
}

func NewWithDoer(doer Doer, cfg Config) *Client {
	c := &Client{
		doer:     doer,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		pageSize: cfg.PageSize,
		attempts: cfg.ReadAttempts,
	}
	if c.pageSize <= 0 {
		c.pageSize = 98
	}
	if c.attempts == 0 {
		c.attempts = 3
	}
	if cfg.BackOff != nil {
		c.newBackOff = func() backoff.BackOff {
			cfg.BackOff.Reset()
			return cfg.BackOff
		}
	} else {
		initial := orDuration(cfg.RetryInitial, 500*time.Millisecond)
		c.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			return b
		}
	}
	return c
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	status, resp, err := c.do(ctx, consts.MethodPost, "/api/session", body, false)
	if err != nil {
		return transportErr("login", err)
	}
	switch {
	case status == consts.StatusUnauthorized || status == consts.StatusForbidden:
		return fmt.Errorf("%w: %s", ports.ErrAuthentication, errorMessage(resp, status))
	case status >= 300:
		return transportErr("login", statusError{status: status, msg: errorMessage(resp, status)})
	}
	token := gjson.GetBytes(resp, "token").String()
	if token == "" {
		return transportErr("login", errors.New("response carries no token"))
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.sessionToken() == "" {
		return transportErr("logout", errNoSession)
	}
	status, resp, err := c.do(ctx, consts.MethodDelete, "/api/session", nil, true)
	if err != nil {
		return transportErr("logout", err)
	}
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if status >= 300 {
		return transportErr("logout", statusError{status: status, msg: errorMessage(resp, status)})
	}
	return nil
}

func (c *Client) ReadDirectoryPage(ctx context.Context, startRank int) ([]raid.Player, error) {
	q := url.Values{}
	q.Set("start_rank", strconv.Itoa(startRank))
	q.Set("count", strconv.Itoa(c.pageSize))
	body, err := c.read(ctx, "/api/players?"+q.Encode())
	if err != nil {
		return nil, err
	}
	players := gjson.GetBytes(body, "players")
	if !players.IsArray() {
		return nil, transportErr("read directory", errors.New("response carries no players array"))
	}
	out := make([]raid.Player, 0, c.pageSize)
	players.ForEach(func(_, p gjson.Result) bool {
		out = append(out, raid.Player{
			Name: p.Get("name").String(),
			Gold: int(p.Get("gold").Int()),
			Rank: int(p.Get("rank").Int()),
		})
		return true
	})
	return out, nil
}

func (c *Client) ReadTargetStatus(ctx context.Context, name string) error {
	_, err := c.read(ctx, playerPath(name))
	return err
}

func (c *Client) Attack(ctx context.Context, name string) (int, error) {
	body, err := json.Marshal(map[string]string{"target": name})
	if err != nil {
		return 0, err
	}
	resp, err := c.write(ctx, "attack", "/api/attacks", body)
	if err != nil {
		return 0, err
	}
	return max(0, int(gjson.GetBytes(resp, "gold_stolen").Int())), nil
}

func (c *Client) ReadWearLevel(ctx context.Context) (int, error) {
	body, err := c.read(ctx, "/api/weapons")
	if err != nil {
		return 0, err
	}
	return int(gjson.GetBytes(body, "wear").Int()), nil
}

func (c *Client) Repair(ctx context.Context) error {
	_, err := c.write(ctx, "repair", "/api/weapons/repair", nil)
	return err
}

func (c *Client) ReadChestAmount(ctx context.Context) (int, error) {
	body, err := c.read(ctx, "/api/chest")
	if err != nil {
		return 0, err
	}
	held := gjson.GetBytes(body, "held_gold")
	if !held.Exists() {
		return 0, transportErr("read chest", errors.New("response carries no held_gold"))
	}
	return int(held.Int()), nil
}

func (c *Client) Deposit(ctx context.Context, amount int) error {
	body, err := json.Marshal(map[string]int{"amount": amount})
	if err != nil {
		return err
	}
	_, err = c.write(ctx, "deposit", "/api/chest/deposits", body)
	return err
}

// read issues an authenticated GET, retrying transport errors and 5xx/429
// answers with backoff.
func (c *Client) read(ctx context.Context, path string) ([]byte, error) {
	op := func() ([]byte, error) {
		status, body, err := c.do(ctx, consts.MethodGet, path, nil, true)
		if errors.Is(err, errNoSession) {
			return nil, backoff.Permanent(err)
		}
		if err != nil {
			return nil, err
		}
		if status >= 300 {
			serr := statusError{status: status, msg: errorMessage(body, status)}
			if retryable(status) {
				return nil, serr
			}
			return nil, backoff.Permanent(serr)
		}
		return body, nil
	}
	body, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.attempts),
	)
	if err != nil {
		return nil, transportErr("GET "+path, err)
	}
	return body, nil
}

// write issues an authenticated POST once. Game actions are not idempotent.
func (c *Client) write(ctx context.Context, op, path string, body []byte) ([]byte, error) {
	status, resp, err := c.do(ctx, consts.MethodPost, path, body, true)
	if err != nil {
		return nil, transportErr(op, err)
	}
	if status >= 300 {
		return nil, transportErr(op, statusError{status: status, msg: errorMessage(resp, status)})
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, auth bool) (int, []byte, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set("Accept", "application/json")
	if auth {
		token := c.sessionToken()
		if token == "" {
			return 0, nil, errNoSession
		}
		req.Header.Set(SessionHeader, token)
	}
	if body != nil {
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(body)
	}

	if err := c.doer.Do(ctx, req, resp); err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

func (c *Client) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func playerPath(name string) string {
	return "/api/players/" + url.PathEscape(name)
}

type statusError struct {
	status int
	msg    string
}

func (e statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.msg)
}

func retryable(status int) bool {
	return status >= 500 || status == consts.StatusTooManyRequests
}

func errorMessage(body []byte, status int) string {
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return msg
	}
	return consts.StatusMessage(status)
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ports.ErrTransport, op, err)
}

func orDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
