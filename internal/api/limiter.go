package api

import "sync"

// analyzeLimiter caps concurrent analyze requests per client IP and
// globally. One analysis can hold a CPU core for seconds, so a concurrency
// cap protects the host where a request-rate limit would not.
type analyzeLimiter struct {
	mu       sync.Mutex
	active   map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

func newAnalyzeLimiter(maxPerIP, maxTotal int) *analyzeLimiter {
	return &analyzeLimiter{
		active:   make(map[string]int),
		maxPerIP: maxPerIP,
		maxTotal: maxTotal,
	}
}

// acquire registers an in-flight request for the given IP.
// Returns false if the IP or global limit has been reached.
func (l *analyzeLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.total >= l.maxTotal {
		return false
	}
	if l.active[ip] >= l.maxPerIP {
		return false
	}

	l.active[ip]++
	l.total++
	return true
}

// release removes an in-flight request for the given IP.
func (l *analyzeLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.active[ip]--
	l.total--
	if l.active[ip] <= 0 {
		delete(l.active, ip)
	}
}
