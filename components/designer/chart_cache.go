package designer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// ChartKey identifies one rendered chart. Digest covers the props the markup
// was rendered from, so an edited chart misses the cache.
type ChartKey struct {
	Session     string
	ComponentID string
	Digest      string
}

// RenderCache memoizes rendered chart HTML per session component.
type RenderCache interface {
	GetOrRender(key ChartKey, render func() (string, error)) (string, error)
	Forget(session, componentID string)
	ForgetSession(session string)
}

// ChartCache keeps at most one rendered chart per session component and
// expires entries after ttl.
type ChartCache struct {
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]map[string]cachedChart
}

type cachedChart struct {
	digest  string
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]map[string]cachedChart),
	}
}

// GetOrRender returns the cached markup when the component's digest still
// matches, otherwise renders and replaces the component's entry.
func (c *ChartCache) GetOrRender(key ChartKey, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Forget drops the entry of one component.
func (c *ChartCache) Forget(session, componentID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.sessions[session]
	delete(entries, componentID)
	if len(entries) == 0 {
		delete(c.sessions, session)
	}
}

// ForgetSession drops every entry of session.
func (c *ChartCache) ForgetSession(session string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.sessions, session)
	c.mu.Unlock()
}

// Len reports the number of cached charts.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, entries := range c.sessions {
		n += len(entries)
	}
	return n
}

func (c *ChartCache) get(key ChartKey) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.sessions[key.Session][key.ComponentID]
	if !ok {
		return "", false
	}
	if entry.digest != key.Digest || c.now().After(entry.expires) {
		delete(c.sessions[key.Session], key.ComponentID)
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) set(key ChartKey, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, ok := c.sessions[key.Session]
	if !ok {
		entries = make(map[string]cachedChart)
		c.sessions[key.Session] = entries
	}
	entries[key.ComponentID] = cachedChart{
		digest:  key.Digest,
		html:    html,
		expires: c.now().Add(c.ttl),
	}
}

// propsDigest hashes a chart's props together with the renderer theme.
func propsDigest(theme string, props map[string]any) string {
	b, err := json.Marshal(props)
	if err != nil {
		return "invalid"
	}
	h := sha256.New()
	h.Write([]byte(theme))
	h.Write([]byte{0})
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil)[:12])
}
