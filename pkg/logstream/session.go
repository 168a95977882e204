package logstream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// State is the connection state of a Session.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// keepaliveSentinel is the liveness marker the server emits on the stream.
// It never reaches the decoder or the buffer.
const keepaliveSentinel = ": keepalive"

// TokenSource supplies a currently valid access credential for each
// connection attempt. *altosdk.Client satisfies it: obtaining a token runs
// the refresh gate first.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Config configures a Session.
type Config struct {
	// URL is the full stream endpoint, e.g. https://api.example.com/logs/stream.
	// The access token is appended as the token query parameter; the
	// transport does not support header auth for this persistent GET.
	URL string

	// Tokens supplies the bearer credential for each connection attempt.
	Tokens TokenSource

	// HTTPClient overrides the default streaming client. The default has no
	// timeout: a timeout would kill a healthy long-lived stream.
	HTTPClient *http.Client

	// Capacity bounds the record buffer. Defaults to DefaultCapacity.
	Capacity int

	// OnState is invoked on every state change, for status indicators.
	// Called from the session's internal goroutines; must not block and must
	// not call back into the Session.
	OnState func(State)

	// OnRecord is invoked for every decoded record after it is buffered.
	// Same calling rules as OnState.
	OnRecord func(Record)

	// OnAuthError is invoked when a connection attempt fails closed because
	// no access credential is available.
	OnAuthError func(error)

	// ReconnectDelay is the backoff floor. Defaults to 2 seconds.
	ReconnectDelay time.Duration

	// MaxReconnectDelay is the backoff cap. Defaults to 30 seconds.
	MaxReconnectDelay time.Duration

	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

// Session maintains one logical subscription to the live log feed. Create
// with New, start with Start, and always Close when done: Close cancels any
// pending reconnect timer so no attempt can fire after the owner is gone.
type Session struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
	buf    *Buffer

	mu      sync.Mutex
	state   State
	backoff backoff
	timer   *time.Timer        // pending reconnect, nil when none
	cancel  context.CancelFunc // open channel teardown, nil when none
	closed  bool
}

// event drives the session's state machine. All transitions funnel through
// transition(), whatever goroutine produced them.
type event int

const (
	evConnect event = iota // start, or a reconnect timer fired
	evOpened               // channel established
	evFailed               // dial error or channel dropped
)

// New creates a Session. It does not connect until Start is called.
func New(cfg Config) *Session {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}
	if cfg.MaxReconnectDelay <= 0 {
		cfg.MaxReconnectDelay = 30 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 0}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		buf:     NewBuffer(cfg.Capacity),
		state:   StateConnecting,
		backoff: newBackoff(cfg.ReconnectDelay, cfg.MaxReconnectDelay),
	}
}

// Start begins connecting. It returns immediately; connection progress is
// reported through Config.OnState.
func (s *Session) Start() {
	s.transition(evConnect)
}

// Close tears the session down: any pending reconnect timer is cancelled and
// any open channel is closed. No further transitions occur after Close.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Records returns a snapshot of the buffered records, oldest first.
func (s *Session) Records() []Record {
	return s.buf.Records()
}

// ClearRecords drops the buffered records, e.g. for a viewer's Clear action.
func (s *Session) ClearRecords() {
	s.buf.Clear()
}

// transition is the single entry point of the state machine.
func (s *Session) transition(ev event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	var next State
	switch ev {
	case evConnect:
		next = StateConnecting
		s.timer = nil
		go s.dial()
	case evOpened:
		next = StateConnected
		s.backoff.Reset()
	case evFailed:
		next = StateReconnecting
		delay := s.backoff.Next()
		s.timer = time.AfterFunc(delay, func() { s.transition(evConnect) })
		s.logger.Debug("log stream reconnect scheduled", "delay", delay)
	}

	changed := next != s.state
	s.state = next
	onState := s.cfg.OnState
	s.mu.Unlock()

	if changed && onState != nil {
		onState(next)
	}
}

// dial performs one connection attempt and, on success, reads the channel
// until it drops. Exactly one dial runs at a time: a new attempt is only
// scheduled after this one has fully torn down.
func (s *Session) dial() {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	err := s.connectAndRead(ctx)

	s.mu.Lock()
	s.cancel = nil
	closed := s.closed
	s.mu.Unlock()
	cancel()

	if closed || errors.Is(err, context.Canceled) {
		return
	}

	if err != nil {
		s.logger.Warn("log stream dropped", "error", err)
		if errors.Is(err, errNotAuthenticated) && s.cfg.OnAuthError != nil {
			s.cfg.OnAuthError(err)
		}
	}
	s.transition(evFailed)
}

var errNotAuthenticated = errors.New("logstream: no access credential")

// connectAndRead opens the event channel and consumes it. A nil return means
// the server ended the stream; the caller still reconnects.
func (s *Session) connectAndRead(ctx context.Context) error {
	token, err := s.cfg.Tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", errNotAuthenticated, err)
	}

	streamURL := s.cfg.URL + "?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	s.transition(evOpened)
	s.logger.Debug("log stream connected")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var dataLines []string
	for scanner.Scan() {
		line := scanner.Text()

		// Blank line terminates the current event.
		if line == "" {
			if len(dataLines) > 0 {
				s.handleFrame(strings.Join(dataLines, "\n"))
				dataLines = dataLines[:0]
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, ":"):
			// Comment line: connection liveness only, carries no event.
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

// handleFrame routes one assembled event payload. Empty frames and the
// keepalive sentinel are liveness plumbing and are filtered before the
// decoder ever sees them; every other payload becomes a buffered record.
func (s *Session) handleFrame(payload string) {
	if payload == "" || payload == keepaliveSentinel {
		return
	}

	rec := DecodeRecord(payload)
	s.buf.Append(rec)
	if s.cfg.OnRecord != nil {
		s.cfg.OnRecord(rec)
	}
}
