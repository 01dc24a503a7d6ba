package actions

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/reconcile"
	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

// EpisodeRef addresses an episode the way the catalog does.
type EpisodeRef struct {
	ShowTraktID int64
	Season      int
	Episode     int
}

// topLevelComments reconciles the complete top-level comment list of one
// item. Replies live under parent_id and are left to syncCommentReplies.
func (r *Registry) topLevelComments(kind remote.ItemKind, itemID int64, uri store.URI, stamp store.Op) *reconcile.Reconciler[remote.Comment, int64] {
	return &reconcile.Reconciler[remote.Comment, int64]{
		Scope: store.Scope{
			Table: store.TableComments,
			Where: "item_type = ? AND item_id = ? AND parent_id = 0",
			Args:  []any{string(kind), itemID},
		},
		KeyColumn: "trakt_id",
		Key:       func(c remote.Comment) int64 { return c.ID },
		Values: func(ctx context.Context, c remote.Comment, _ int) (store.Values, error) {
			return r.commentValues(ctx, c)
		},
		Fixed:  store.Values{"item_type": string(kind), "item_id": itemID, "last_sync": r.now()},
		Lookup: r.commentLookup,
		Index:  "comment_index",
		Stamp:  []store.Op{stamp},
		URI:    uri,
	}
}

// syncItemComments mirrors all comment pages of a movie or show.
type syncItemComments struct {
	r    *Registry
	kind remote.ItemKind
}

func (a *syncItemComments) name() string {
	switch a.kind {
	case remote.KindMovie:
		return "Movie"
	case remote.KindShow:
		return "Show"
	default:
		panic(fmt.Sprintf("comments: unsupported item kind %q", a.kind))
	}
}

func (a *syncItemComments) table() string {
	if a.kind == remote.KindShow {
		return store.TableShows
	}
	return store.TableMovies
}

func (a *syncItemComments) Key(traktID int64) string {
	return fmt.Sprintf("Sync%sComments&traktId=%d", a.name(), traktID)
}

func (a *syncItemComments) Call(ctx context.Context, traktID int64, page int) (remote.Page[remote.Comment], error) {
	if a.kind == remote.KindShow {
		return a.r.Catalog.ShowComments(ctx, traktID, page, a.r.PageLimit)
	}
	return a.r.Catalog.MovieComments(ctx, traktID, page, a.r.PageLimit)
}

func (a *syncItemComments) IgnoreError(err error) bool {
	return remote.IsGone(err)
}

func (a *syncItemComments) HandleAll(ctx context.Context, traktID int64, comments []remote.Comment) error {
	itemID, ok, err := a.r.Store.LookupID(ctx, a.table(), "trakt_id", traktID)
	if err != nil {
		return err
	}
	if !ok {
		return &store.MissingRowError{Table: a.table(), Key: traktID}
	}

	stamp := store.UpdateByID(a.table(), itemID, store.Values{"last_comment_sync": a.r.now()}, "")
	uri := store.URIComments.Join(a.kind, traktID)
	res, err := a.r.topLevelComments(a.kind, itemID, uri, stamp).Apply(ctx, a.r.Store, comments)
	if err != nil {
		return err
	}
	a.r.Logger.Debug("comments reconciled", "kind", a.kind, "item", traktID, "changes", res.Summary())
	return nil
}

// syncEpisodeComments mirrors all comment pages of an episode.
type syncEpisodeComments struct{ r *Registry }

func (a *syncEpisodeComments) Key(ref EpisodeRef) string {
	return fmt.Sprintf("SyncEpisodeComments&showId=%d&season=%d&episode=%d", ref.ShowTraktID, ref.Season, ref.Episode)
}

func (a *syncEpisodeComments) Call(ctx context.Context, ref EpisodeRef, page int) (remote.Page[remote.Comment], error) {
	return a.r.Catalog.EpisodeComments(ctx, ref.ShowTraktID, ref.Season, ref.Episode, page, a.r.PageLimit)
}

func (a *syncEpisodeComments) IgnoreError(err error) bool {
	return remote.IsGone(err)
}

func (a *syncEpisodeComments) HandleAll(ctx context.Context, ref EpisodeRef, comments []remote.Comment) error {
	episodeID, err := a.r.Store.EpisodeByNumber(ctx, ref.ShowTraktID, ref.Season, ref.Episode)
	if err != nil {
		return err
	}

	stamp := store.UpdateByID(store.TableEpisodes, episodeID, store.Values{"last_comment_sync": a.r.now()}, "")
	uri := store.URIComments.Join(remote.KindEpisode, episodeID)
	_, err = a.r.topLevelComments(remote.KindEpisode, episodeID, uri, stamp).Apply(ctx, a.r.Store, comments)
	return err
}

// syncCommentReplies mirrors the replies of one comment page by page. Each
// page commits on its own; replies not seen on any page are pruned after the
// last page by their last_sync mark.
type syncCommentReplies struct {
	r *Registry

	// started holds the start time of the running pass per parent. The
	// manager runs at most one pass per parent at a time, and the entry lives
	// exactly as long as the pass.
	mu      sync.Mutex
	started map[int64]int64
}

func newSyncCommentReplies(r *Registry) *syncCommentReplies {
	return &syncCommentReplies{r: r, started: make(map[int64]int64)}
}

// action wraps the paged runner so every pass, failed or not, records its
// start first and drops it when it ends.
func (a *syncCommentReplies) action(opts ...action.PagedOption) action.Action[int64] {
	paged := action.Paged[int64, remote.Comment](a, opts...)
	return action.Func[int64]{
		KeyFunc: a.Key,
		InvokeFunc: func(ctx context.Context, parentID int64) error {
			a.mu.Lock()
			a.started[parentID] = a.r.now()
			a.mu.Unlock()
			defer func() {
				a.mu.Lock()
				delete(a.started, parentID)
				a.mu.Unlock()
			}()
			return paged.Invoke(ctx, parentID)
		},
	}
}

func (a *syncCommentReplies) Key(parentID int64) string {
	return fmt.Sprintf("SyncCommentReplies&traktId=%d", parentID)
}

func (a *syncCommentReplies) Call(ctx context.Context, parentID int64, page int) (remote.Page[remote.Comment], error) {
	return a.r.Catalog.CommentReplies(ctx, parentID, page, a.r.PageLimit)
}

func (a *syncCommentReplies) passStart(parentID int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started[parentID]
}

func (a *syncCommentReplies) HandlePage(ctx context.Context, parentID int64, _ int, replies []remote.Comment) error {
	itemType, itemID, err := a.r.Store.CommentItem(ctx, parentID)
	if err != nil {
		return err
	}

	rec := &reconcile.Reconciler[remote.Comment, int64]{
		Scope:     store.Scope{Table: store.TableComments, Where: "parent_id = ?", Args: []any{parentID}},
		KeyColumn: "trakt_id",
		Key:       func(c remote.Comment) int64 { return c.ID },
		Values: func(ctx context.Context, c remote.Comment, _ int) (store.Values, error) {
			return a.r.commentValues(ctx, c)
		},
		Fixed: store.Values{
			"parent_id": parentID,
			"item_type": itemType,
			"item_id":   itemID,
			"last_sync": a.passStart(parentID),
		},
		Lookup:        a.r.commentLookup,
		KeepUnmatched: true,
		URI:           store.URIComments.Join("replies", parentID),
	}
	_, err = rec.Apply(ctx, a.r.Store, replies)
	return err
}

func (a *syncCommentReplies) OnDone(ctx context.Context, parentID int64) error {
	started := a.passStart(parentID)

	_, err := a.r.Store.Apply(ctx, []store.Op{{
		Kind:  store.OpDelete,
		Table: store.TableComments,
		Where: "parent_id = ? AND last_sync < ? AND liked = 0",
		Args:  []any{parentID, started},
		URI:   store.URIComments.Join("replies", parentID),
	}})
	return err
}

// syncCommentLikes mirrors which comments the user liked. Unliked comments
// stay in the store with liked cleared.
type syncCommentLikes struct{ r *Registry }

// SettingCommentLiked is the activity mark for comment likes.
const SettingCommentLiked = "commentLikedAt"

func (a *syncCommentLikes) Key(int64) string {
	return "SyncCommentLikes"
}

func (a *syncCommentLikes) Call(ctx context.Context, _ int64, page int) (remote.Page[remote.LikedItem], error) {
	return a.r.Catalog.LikedComments(ctx, page, a.r.PageLimit)
}

func (a *syncCommentLikes) HandleAll(ctx context.Context, since int64, likes []remote.LikedItem) error {
	comments := make([]remote.LikedItem, 0, len(likes))
	for _, l := range likes {
		if l.Type == remote.KindComment && l.Comment != nil {
			comments = append(comments, l)
		}
	}

	rec := &reconcile.Reconciler[remote.LikedItem, int64]{
		Scope:     store.Scope{Table: store.TableComments, Where: "liked = 1"},
		KeyColumn: "trakt_id",
		Key:       func(l remote.LikedItem) int64 { return l.Comment.ID },
		Values: func(ctx context.Context, l remote.LikedItem, _ int) (store.Values, error) {
			v, err := a.r.commentValues(ctx, *l.Comment)
			if err != nil {
				return nil, err
			}
			v["liked_at"] = millis(l.LikedAt)
			return v, nil
		},
		Fixed:  store.Values{"liked": 1},
		Lookup: a.r.commentLookup,
		Absent: store.Values{"liked": 0, "liked_at": 0},
		Stamp:  activityStamp(SettingCommentLiked, since),
		URI:    store.URIComments.Join("liked"),
	}
	res, err := rec.Apply(ctx, a.r.Store, comments)
	if err != nil {
		return err
	}
	a.r.Logger.Debug("comment likes reconciled", "changes", res.Summary())
	return nil
}
