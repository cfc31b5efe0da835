package input

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/osckit/go-avatar/internal/httpc"
)

// urlPollTick is how often the poller wakes to check for due URLs. Each URL
// keeps its own poll interval on top of this.
const urlPollTick = time.Second

// URLPoller periodically fetches registered URLs and emits a URLChanged
// event when the fetched contents differ from the previous fetch. Fetch
// failures and non-200 responses are logged and produce no event.
type URLPoller struct {
	q      *Queue
	log    *slog.Logger
	client *http.Client

	mu   sync.Mutex
	urls map[string]*polledURL
}

type polledURL struct {
	interval   time.Duration
	decodeJSON bool
	lastPoll   time.Time
	contents   any
	seen       bool
}

// NewURLPoller creates a poller feeding q. Run must be called to start it.
func NewURLPoller(q *Queue, logger *slog.Logger) *URLPoller {
	if logger == nil {
		logger = slog.Default()
	}
	return &URLPoller{
		q:      q,
		log:    logger,
		client: httpc.NewClient(10 * time.Second),
		urls:   make(map[string]*polledURL),
	}
}

// Add registers url for polling every interval. The first successful fetch
// seeds the comparison baseline without firing an event.
func (p *URLPoller) Add(url string, interval time.Duration, decodeJSON bool) {
	if interval < urlPollTick {
		interval = urlPollTick
	}
	p.mu.Lock()
	if _, ok := p.urls[url]; !ok {
		p.urls[url] = &polledURL{interval: interval, decodeJSON: decodeJSON}
	}
	p.mu.Unlock()
}

// Remove unregisters url.
func (p *URLPoller) Remove(url string) {
	p.mu.Lock()
	delete(p.urls, url)
	p.mu.Unlock()
}

// Run polls until ctx is canceled. Call in its own goroutine.
func (p *URLPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(urlPollTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.pollDue(ctx, now)
		}
	}
}

func (p *URLPoller) pollDue(ctx context.Context, now time.Time) {
	p.mu.Lock()
	due := make(map[string]*polledURL)
	for url, pu := range p.urls {
		if now.Sub(pu.lastPoll) >= pu.interval {
			pu.lastPoll = now
			due[url] = pu
		}
	}
	p.mu.Unlock()

	for url, pu := range due {
		contents, err := p.fetch(ctx, url, pu.decodeJSON)
		if err != nil {
			p.log.Warn("url poll failed", "url", url, "error", err)
			continue
		}
		p.mu.Lock()
		changed := pu.seen && !reflect.DeepEqual(pu.contents, contents)
		first := !pu.seen
		pu.contents = contents
		pu.seen = true
		p.mu.Unlock()
		if first || !changed {
			continue
		}
		if !p.q.Push(URLChanged{URL: url, Contents: contents}) {
			p.log.Warn("input queue full, dropping url event", "url", url)
		}
	}
}

func (p *URLPoller) fetch(ctx context.Context, url string, decodeJSON bool) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if decodeJSON {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return v, nil
	}
	return strings.TrimSpace(string(body)), nil
}
