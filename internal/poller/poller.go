// Package poller is the client side of the relay: it polls the cursor-based
// egress endpoint and the local fallback channel, collapses duplicate incident
// ids, and projects what survives into the task cache.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"orbis-relay/internal/queue"
	"orbis-relay/internal/tasks"
	"orbis-relay/internal/webhook"
)

const (
	DefaultPollInterval     = 2 * time.Second
	DefaultFallbackInterval = 3 * time.Second
	// DefaultSeenReset bounds seen-set memory. It must stay well above the
	// queue TTL so an id cannot validly reappear inside one window.
	DefaultSeenReset = 5 * time.Minute
)

// Notifier raises a user-visible notification for a freshly inserted task.
// Failures are the notifier's problem; the poller never checks them.
type Notifier interface {
	Notify(title, body string)
}

// PendingSource is the local fallback channel: incidents queued by a
// same-host alternate path, drained on every fallback tick.
type PendingSource interface {
	Drain() ([]webhook.Incident, error)
}

type Options struct {
	PollInterval     time.Duration
	FallbackInterval time.Duration
	SeenReset        time.Duration
	HTTPClient       *http.Client
	Fallback         PendingSource
	Notifier         Notifier
}

type Poller struct {
	baseURL string
	client  *http.Client
	cache   *tasks.Cache
	logger  *slog.Logger
	opts    Options

	mu     sync.Mutex
	seen   map[string]struct{}
	cursor int64
}

func New(baseURL string, cache *tasks.Cache, logger *slog.Logger, opts Options) *Poller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.FallbackInterval <= 0 {
		opts.FallbackInterval = DefaultFallbackInterval
	}
	if opts.SeenReset <= 0 {
		opts.SeenReset = DefaultSeenReset
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 7 * time.Second}
	}
	return &Poller{
		baseURL: baseURL,
		client:  client,
		cache:   cache,
		logger:  logger,
		opts:    opts,
		seen:    make(map[string]struct{}),
	}
}

// Run polls until the context is cancelled. One pass of each channel runs
// immediately; poll failures are logged and the loop continues on the next
// tick with no backoff.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.PollOnce(ctx); err != nil {
		p.logger.Warn("initial poll failed", "error", err)
	}
	p.PollFallback()

	apiTicker := time.NewTicker(p.opts.PollInterval)
	defer apiTicker.Stop()
	fallbackTicker := time.NewTicker(p.opts.FallbackInterval)
	defer fallbackTicker.Stop()
	resetTicker := time.NewTicker(p.opts.SeenReset)
	defer resetTicker.Stop()

	for {
		select {
		case <-apiTicker.C:
			if err := p.PollOnce(ctx); err != nil {
				p.logger.Warn("poll failed", "error", err)
			}
		case <-fallbackTicker.C:
			p.PollFallback()
		case <-resetTicker.C:
			p.resetSeen()
		case <-ctx.Done():
			p.logger.Info("shutting down poller")
			return nil
		}
	}
}

// egressResponse mirrors the /webhook-inject GET body.
type egressResponse struct {
	Success          bool          `json:"success"`
	Webhooks         []queue.Entry `json:"webhooks"`
	Count            int           `json:"count"`
	TotalInQueue     int           `json:"total_in_queue"`
	CurrentTimestamp int64         `json:"current_timestamp"`
	Timestamp        string        `json:"timestamp"`
}

// PollOnce fetches the egress endpoint with the current cursor, processes
// every returned incident, then advances the cursor to the server's
// current_timestamp.
func (p *Poller) PollOnce(ctx context.Context) error {
	p.mu.Lock()
	cursor := p.cursor
	p.mu.Unlock()

	url := p.baseURL + "/webhook-inject?since=" + strconv.FormatInt(cursor, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body egressResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	for i := range body.Webhooks {
		entry := &body.Webhooks[i]
		p.process(&entry.Incident, entry.ID)
	}

	p.mu.Lock()
	p.cursor = body.CurrentTimestamp
	p.mu.Unlock()
	return nil
}

// process applies both dedup layers: the session seen-set first, then the
// cache's own id check, so a re-delivered incident never makes a second task.
func (p *Poller) process(inc *webhook.Incident, id string) {
	if id == "" {
		id = inc.IncidentID
	}

	p.mu.Lock()
	if _, dup := p.seen[id]; dup {
		p.mu.Unlock()
		return
	}
	p.seen[id] = struct{}{}
	p.mu.Unlock()

	task := tasks.FromIncident(inc)
	if task.ID == "" {
		task.ID = id
		task.IncidentID = id
	}
	if !p.cache.Upsert(task) {
		p.logger.Debug("duplicate task suppressed", "id", task.ID)
		return
	}

	p.logger.Info("task created from webhook", "id", task.ID, "title", task.Title, "location", task.Location)
	if p.opts.Notifier != nil {
		p.opts.Notifier.Notify("Nova Ocorrência!", fmt.Sprintf("%s em %s", task.Title, task.Location))
	}
}

// PollFallback consumes the local pending channel, applying identical
// dedup and insertion. Errors are logged and swallowed.
func (p *Poller) PollFallback() {
	if p.opts.Fallback == nil {
		return
	}
	incidents, err := p.opts.Fallback.Drain()
	if err != nil {
		p.logger.Warn("fallback drain failed", "error", err)
		return
	}
	for i := range incidents {
		p.process(&incidents[i], incidents[i].IncidentID)
	}
	if len(incidents) > 0 {
		p.logger.Debug("processed fallback incidents", "count", len(incidents))
	}
}

func (p *Poller) resetSeen() {
	p.mu.Lock()
	p.seen = make(map[string]struct{})
	p.mu.Unlock()
	p.logger.Debug("seen set reset")
}

// Cursor returns the last persisted egress cursor.
func (p *Poller) Cursor() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}
