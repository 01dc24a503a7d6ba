package store

import "testing"

func TestNotifier_PrefixMatch(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	movies, cancelMovies := n.Subscribe(URIMovies)
	defer cancelMovies()
	shows, cancelShows := n.Subscribe(URIShows)
	defer cancelShows()

	n.Publish([]URI{URIMovies.Join(7, "comments")})

	select {
	case c := <-movies:
		if c.URI != "reelsync://movies/7/comments" {
			t.Errorf("URI = %q", c.URI)
		}
	default:
		t.Error("movies subscriber got nothing")
	}

	select {
	case c := <-shows:
		t.Errorf("shows subscriber got %q", c.URI)
	default:
	}
}

func TestNotifier_DedupWithinPublish(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	ch, cancel := n.Subscribe("")
	defer cancel()

	u := URIComments.Join(1)
	n.Publish([]URI{u, u, "", u})

	if len(ch) != 1 {
		t.Errorf("queued = %d, want 1", len(ch))
	}
}

func TestNotifier_FullBufferDoesNotBlock(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	_, cancel := n.Subscribe("")
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		n.Publish([]URI{URIMovies.Join(i)})
	}
}

func TestNotifier_CancelClosesChannel(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	ch, cancel := n.Subscribe(URIMovies)
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}
}

func TestNotifier_SubscribeAfterClose(t *testing.T) {
	n := NewNotifier()
	n.Close()

	ch, cancel := n.Subscribe(URIMovies)
	defer cancel()
	if _, ok := <-ch; ok {
		t.Error("subscription after Close() should be closed")
	}
}
