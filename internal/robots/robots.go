// Package robots decides whether a page may be fetched according to its
// host's robots.txt.
package robots

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"

	"github.com/hyperifyio/freeresearch/internal/fetch"
)

// Checker evaluates robots.txt rules. Parsed files are memoized per origin for
// the lifetime of the Checker, so create one per research run.
type Checker struct {
	Fetcher *fetch.Client
	// UserAgent is the product token matched against User-agent groups.
	UserAgent string

	mu  sync.Mutex
	mem map[string]*entry
}

type entry struct {
	once sync.Once
	data *robotstxt.RobotsData
}

// Allowed reports whether pageURL may be fetched. Unparseable URLs are
// disallowed; an unreachable robots.txt allows everything.
func (c *Checker) Allowed(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return false
	}
	origin := strings.ToLower(u.Scheme + "://" + u.Host)

	c.mu.Lock()
	if c.mem == nil {
		c.mem = make(map[string]*entry)
	}
	e, ok := c.mem[origin]
	if !ok {
		e = &entry{}
		c.mem[origin] = e
	}
	c.mu.Unlock()

	// Concurrent candidates on the same host share one robots.txt fetch.
	e.once.Do(func() { e.data = c.load(ctx, origin) })
	if e.data == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return e.data.TestAgent(path, c.agent())
}

func (c *Checker) agent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return "freeresearch"
}

func (c *Checker) load(ctx context.Context, origin string) *robotstxt.RobotsData {
	if c.Fetcher == nil {
		return nil
	}
	robotsURL := origin + "/robots.txt"
	resp, err := c.Fetcher.Get(ctx, robotsURL)
	status := resp.Status
	body := resp.Body
	if err != nil {
		var fe *fetch.FetchError
		if !errors.As(err, &fe) || fe.Cause != fetch.CauseHTTPStatus {
			log.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt unreachable; allowing")
			return nil
		}
		status, body = fe.Status, nil
	}
	// Library semantics: 4xx allows all, 5xx disallows all.
	data, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		log.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt unparseable; allowing")
		return nil
	}
	return data
}
