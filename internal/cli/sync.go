package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/actions"
	"github.com/roach88/reelsync/internal/store"
)

// syncTarget is one `reelsync sync <target>` entry.
type syncTarget struct {
	help string
	// args is the number of ids per invocation; 0 takes none.
	args int
	// multi allows several ids, one invocation each.
	multi bool
	// table gets a bare row per id first, so the action has a row to fill.
	table string
	run   func(ctx context.Context, r *actions.Registry, ids []int64) error
}

func byID(help, table string, pick func(*actions.Registry) action.Action[int64]) syncTarget {
	return syncTarget{
		help:  help,
		args:  1,
		multi: true,
		table: table,
		run: func(ctx context.Context, r *actions.Registry, ids []int64) error {
			return action.InvokeSync(ctx, r.Manager, pick(r), ids[0])
		},
	}
}

func noArgs[P any](help string, pick func(*actions.Registry) action.Action[P], p P) syncTarget {
	return syncTarget{
		help: help,
		run: func(ctx context.Context, r *actions.Registry, _ []int64) error {
			return action.InvokeSync(ctx, r.Manager, pick(r), p)
		},
	}
}

// syncTargets lists every sync target by name.
var syncTargets = map[string]syncTarget{
	"movie": byID("movie summary", store.TableMovies,
		func(r *actions.Registry) action.Action[int64] { return r.SyncMovie }),
	"show": byID("show summary, seasons and episodes", store.TableShows,
		func(r *actions.Registry) action.Action[int64] { return r.SyncShow }),
	"seasons": byID("seasons and episodes of a show", store.TableShows,
		func(r *actions.Registry) action.Action[int64] { return r.SyncSeasons }),
	"credits": byID("cast and crew of a movie", store.TableMovies,
		func(r *actions.Registry) action.Action[int64] { return r.SyncMovieCredits }),
	"show-credits": byID("cast and crew of a show", store.TableShows,
		func(r *actions.Registry) action.Action[int64] { return r.SyncShowCredits }),
	"person": byID("movie credits of a person", store.TablePeople,
		func(r *actions.Registry) action.Action[int64] { return r.SyncPersonMovieCredits }),
	"related": byID("related movies", store.TableMovies,
		func(r *actions.Registry) action.Action[int64] { return r.SyncRelatedMovies }),
	"list": byID("list summary and items", store.TableLists,
		func(r *actions.Registry) action.Action[int64] { return r.SyncList }),
	"comments": byID("all comments on a movie", store.TableMovies,
		func(r *actions.Registry) action.Action[int64] { return r.SyncMovieComments }),
	"show-comments": byID("all comments on a show", store.TableShows,
		func(r *actions.Registry) action.Action[int64] { return r.SyncShowComments }),
	"replies": byID("replies to a comment", "",
		func(r *actions.Registry) action.Action[int64] { return r.SyncCommentReplies }),
	"episode-comments": {
		help: "comments on an episode: <show> <season> <episode>",
		args: 3,
		run: func(ctx context.Context, r *actions.Registry, ids []int64) error {
			ref := actions.EpisodeRef{ShowTraktID: ids[0], Season: int(ids[1]), Episode: int(ids[2])}
			return action.InvokeSync(ctx, r.Manager, r.SyncEpisodeComments, ref)
		},
	},
	"likes": noArgs("liked comments",
		func(r *actions.Registry) action.Action[int64] { return r.SyncCommentLikes }, 0),
	"trending": noArgs("trending movies",
		func(r *actions.Registry) action.Action[struct{}] { return r.SyncTrendingMovies }, struct{}{}),
	"trending-shows": noArgs("trending shows",
		func(r *actions.Registry) action.Action[struct{}] { return r.SyncTrendingShows }, struct{}{}),
	"anticipated": noArgs("anticipated movies",
		func(r *actions.Registry) action.Action[struct{}] { return r.SyncAnticipatedMovies }, struct{}{}),
	"hidden": noArgs("hidden recommendations",
		func(r *actions.Registry) action.Action[int64] { return r.SyncHiddenRecommendations }, 0),
	"activity": noArgs("collections whose activity stamp changed",
		func(r *actions.Registry) action.Action[struct{}] { return r.SyncUserActivity }, struct{}{}),
	"watchlist": noArgs("movie watchlist",
		func(r *actions.Registry) action.Action[int64] { return r.SyncMoviesWatchlist }, 0),
	"watched": noArgs("watched movies",
		func(r *actions.Registry) action.Action[int64] { return r.SyncWatchedMovies }, 0),
	"watched-shows": noArgs("watched episodes",
		func(r *actions.Registry) action.Action[int64] { return r.SyncWatchedShows }, 0),
	"watching": noArgs("current check-in",
		func(r *actions.Registry) action.Action[struct{}] { return r.SyncWatching }, struct{}{}),
	"pending": {
		help: "movies and shows that only hold a remote id",
		run: func(ctx context.Context, r *actions.Registry, _ []int64) error {
			return fanOut(ctx, r, []action.Action[struct{}]{r.SyncPendingMovies, r.SyncPendingShows})
		},
	},
	"push": noArgs("local edits not yet pushed",
		func(r *actions.Registry) action.Action[struct{}] { return r.PushPendingMovies }, struct{}{}),
	"all": {
		help: "push edits, then activity, check-in and rankings",
		run:  syncAll,
	},
}

// syncAll pushes local edits first so the activity pass does not overwrite
// them, then fans out the account-wide syncs.
func syncAll(ctx context.Context, r *actions.Registry, _ []int64) error {
	if err := action.InvokeSync(ctx, r.Manager, r.PushPendingMovies, struct{}{}); err != nil {
		return err
	}
	return fanOut(ctx, r, []action.Action[struct{}]{
		r.SyncUserActivity,
		r.SyncWatching,
		r.SyncTrendingMovies,
		r.SyncTrendingShows,
		r.SyncAnticipatedMovies,
	})
}

// fanOut runs every action concurrently and returns the first failure after
// all have finished.
func fanOut(ctx context.Context, r *actions.Registry, all []action.Action[struct{}]) error {
	var g errgroup.Group
	for _, a := range all {
		g.Go(func() error {
			return action.InvokeSync(ctx, r.Manager, a, struct{}{})
		})
	}
	return g.Wait()
}

// SyncResult is the payload reported after a sync.
type SyncResult struct {
	Target string  `json:"target"`
	IDs    []int64 `json:"ids,omitempty"`
}

func (r SyncResult) String() string {
	if len(r.IDs) == 0 {
		return fmt.Sprintf("synced %s", r.Target)
	}
	ids := make([]string, len(r.IDs))
	for i, id := range r.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("synced %s %s", r.Target, strings.Join(ids, " "))
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	names := make([]string, 0, len(syncTargets))
	for name := range syncTargets {
		names = append(names, name)
	}
	slices.Sort(names)

	var long strings.Builder
	long.WriteString("Fetch remote data and reconcile it into the local database.\n\nTargets:\n")
	for _, name := range names {
		t := syncTargets[name]
		usage := name
		if t.args == 1 {
			usage += " <id>..."
		}
		fmt.Fprintf(&long, "  %-28s %s\n", usage, t.help)
	}

	return &cobra.Command{
		Use:       "sync <target> [id...]",
		Short:     "Sync remote data into the local database",
		Long:      long.String(),
		Example:   "  reelsync sync movie 1390\n  reelsync sync episode-comments 1388 1 1\n  reelsync sync all",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, rootOpts, args[0], args[1:])
		},
	}
}

func runSync(cmd *cobra.Command, opts *RootOptions, name string, rawIDs []string) error {
	f := formatter(cmd, opts)

	target, ok := syncTargets[name]
	if !ok {
		return report(f, NewExitError(ExitCommandError, fmt.Sprintf("unknown sync target %q", name)))
	}
	ids, err := parseTargetIDs(target, name, rawIDs)
	if err != nil {
		return report(f, err)
	}

	a, err := openApp(cmd, opts, false)
	if err != nil {
		return report(f, err)
	}
	defer a.close()

	ctx := commandContext(cmd)
	if target.table != "" {
		for _, id := range ids {
			if _, created, err := a.store.IDOrCreate(ctx, target.table, id); err != nil {
				return report(f, err)
			} else if created {
				f.VerboseLog("created %s row for %d", target.table, id)
			}
		}
	}

	f.VerboseLog("syncing %s %v", name, ids)
	if err := invokeTarget(ctx, a.reg, target, ids); err != nil {
		a.logger.Error("sync failed", "target", name, "error", err)
		return report(f, err)
	}
	return f.Success(SyncResult{Target: name, IDs: ids})
}

// invokeTarget runs target once, or once per id for multi targets.
func invokeTarget(ctx context.Context, r *actions.Registry, target syncTarget, ids []int64) error {
	if !target.multi || len(ids) <= 1 {
		return target.run(ctx, r, ids)
	}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			return target.run(ctx, r, []int64{id})
		})
	}
	return g.Wait()
}

func parseTargetIDs(target syncTarget, name string, raw []string) ([]int64, error) {
	switch {
	case target.args == 0 && len(raw) > 0:
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("sync %s takes no ids", name))
	case target.multi && len(raw) == 0:
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("sync %s needs at least one id", name))
	case !target.multi && target.args > 0 && len(raw) != target.args:
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("sync %s needs %d ids", name, target.args))
	}

	ids := make([]int64, len(raw))
	for i, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 0 {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", s))
		}
		ids[i] = id
	}
	return ids, nil
}
