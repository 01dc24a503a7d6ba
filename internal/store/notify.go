package store

import (
	"strings"
	"sync"
)

// URI names a logical resource observers can watch, e.g.
// "reelsync://movies/42/comments". Prefix matching is plain string prefix.
type URI string

// Common URI roots.
const (
	URIRoot      URI = "reelsync://" // prefix of every URI; subscribe only
	URIMovies    URI = "reelsync://movies"
	URIShows     URI = "reelsync://shows"
	URIPeople    URI = "reelsync://people"
	URIComments  URI = "reelsync://comments"
	URILists     URI = "reelsync://lists"
	URIWatchlist URI = "reelsync://watchlist"
	URITrending  URI = "reelsync://trending"
	URISettings  URI = "reelsync://settings"
	URIUser      URI = "reelsync://user"
)

// Join appends path segments to a URI.
func (u URI) Join(parts ...any) URI {
	var b strings.Builder
	b.WriteString(string(u))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(toString(p))
	}
	return URI(b.String())
}

// Change is delivered to subscribers once per affected URI per committed batch.
type Change struct {
	URI URI
}

const subscriberBuffer = 64

type subscriber struct {
	prefix string
	ch     chan Change
}

// Notifier fans out change notifications to prefix subscribers.
// Sends never block: a subscriber whose buffer is full misses the change.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
	closed bool
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]*subscriber)}
}

// Subscribe returns a channel receiving changes whose URI starts with prefix,
// and a cancel func that unsubscribes and closes the channel.
func (n *Notifier) Subscribe(prefix URI) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan Change, subscriberBuffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.subs[id] = &subscriber{prefix: string(prefix), ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if sub, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(sub.ch)
			}
		})
	}
}

// Publish delivers each distinct URI once, in first-seen order.
func (n *Notifier) Publish(uris []URI) {
	if len(uris) == 0 {
		return
	}

	seen := make(map[URI]bool, len(uris))
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, u := range uris {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		for _, sub := range n.subs {
			if !strings.HasPrefix(string(u), sub.prefix) {
				continue
			}
			select {
			case sub.ch <- Change{URI: u}:
			default:
			}
		}
	}
}

// Close closes every subscriber channel. Later subscriptions get a closed channel.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for id, sub := range n.subs {
		close(sub.ch)
		delete(n.subs, id)
	}
}

// Subscribe is a shorthand for s.Notifier().Subscribe.
func (s *Store) Subscribe(prefix URI) (<-chan Change, func()) {
	return s.notifier.Subscribe(prefix)
}
