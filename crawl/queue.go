package crawl

// Queue is a bounded FIFO of unique URLs.
type Queue struct {
	items []string
	seen  map[string]struct{}
	idx   int
	limit int
}

// NewQueue creates a Queue holding at most limit URLs; limit <= 0 means
// unbounded.
func NewQueue(limit int) *Queue {
	return &Queue{seen: make(map[string]struct{}), limit: limit}
}

// Add enqueues url unless it was seen before or the queue is full.
func (q *Queue) Add(url string) bool {
	if _, ok := q.seen[url]; ok || q.Full() {
		return false
	}
	q.seen[url] = struct{}{}
	q.items = append(q.items, url)
	return true
}

// Full reports whether the limit has been reached.
func (q *Queue) Full() bool {
	return q.limit > 0 && len(q.items) >= q.limit
}

// HasNext reports whether unvisited URLs remain.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unvisited URL.
func (q *Queue) Next() string {
	url := q.items[q.idx]
	q.idx++
	return url
}

// All returns every queued URL in insertion order.
func (q *Queue) All() []string {
	return append([]string(nil), q.items...)
}
