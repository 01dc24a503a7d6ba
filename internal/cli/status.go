package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/reelsync/internal/actions"
	"github.com/roach88/reelsync/internal/store"
)

// statusTables are the tables counted by status, in display order.
var statusTables = []string{
	store.TableMovies,
	store.TableShows,
	store.TableSeasons,
	store.TableEpisodes,
	store.TablePeople,
	store.TableComments,
	store.TableLists,
	store.TableListItems,
	store.TableUsers,
}

// activityKeys are the last-activity marks shown by status.
var activityKeys = []string{
	actions.SettingMovieWatched,
	actions.SettingMovieWatchlist,
	actions.SettingCommentLiked,
	actions.SettingMovieHidden,
	actions.SettingShowHidden,
}

// TableCount is the row count of one table.
type TableCount struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// ActivityMark is one stored last-activity timestamp.
type ActivityMark struct {
	Key string `json:"key"`
	At  int64  `json:"at"` // unix millis; 0 means never synced
}

// Status summarizes the local mirror.
type Status struct {
	Tables        []TableCount   `json:"tables"`
	PendingMovies int            `json:"pending_movies"`
	PendingShows  int            `json:"pending_shows"`
	DirtyMovies   int            `json:"dirty_movies"`
	Watching      int64          `json:"watching,omitempty"`
	Activity      []ActivityMark `json:"activity"`
	RecentRuns    []store.Run    `json:"recent_runs"`
}

// recentRunLimit caps the journal rows shown by status.
const recentRunLimit = 5

func (s Status) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	for _, c := range s.Tables {
		fmt.Fprintf(w, "%s\t%d\n", c.Table, c.Rows)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "pending movies\t%d\n", s.PendingMovies)
	fmt.Fprintf(w, "pending shows\t%d\n", s.PendingShows)
	fmt.Fprintf(w, "unpushed edits\t%d\n", s.DirtyMovies)
	if s.Watching != 0 {
		fmt.Fprintf(w, "watching\tmovie %d\n", s.Watching)
	} else {
		fmt.Fprintf(w, "watching\tnothing\n")
	}
	fmt.Fprintln(w)
	for _, m := range s.Activity {
		at := "never"
		if m.At > 0 {
			at = time.UnixMilli(m.At).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\n", m.Key, at)
	}
	if len(s.RecentRuns) > 0 {
		fmt.Fprintln(w)
		for _, r := range s.RecentRuns {
			outcome := r.Outcome
			if outcome == store.RunRunning {
				outcome = "running"
			}
			started := time.UnixMilli(r.StartedAt).UTC().Format(time.RFC3339)
			fmt.Fprintf(w, "%s\t%s\t%s\n", started, outcome, r.Key)
		}
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the local mirror holds",
		Long: `Show row counts, pending work and last-activity marks of the local database.

No remote calls are made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(cmd, rootOpts)

			a, err := openApp(cmd, rootOpts, false)
			if err != nil {
				return report(f, err)
			}
			defer a.close()

			status, err := readStatus(commandContext(cmd), a.store)
			if err != nil {
				return report(f, WrapExitError(ExitFailure, "failed to read status", err))
			}
			return f.Success(status)
		},
	}
}

func readStatus(ctx context.Context, st *store.Store) (Status, error) {
	var s Status
	for _, table := range statusTables {
		n, err := st.Count(ctx, store.Scope{Table: table})
		if err != nil {
			return Status{}, err
		}
		s.Tables = append(s.Tables, TableCount{Table: table, Rows: n})
	}

	counts := []struct {
		dst   *int
		scope store.Scope
	}{
		{&s.PendingMovies, store.Scope{Table: store.TableMovies, Where: "needs_sync = 1"}},
		{&s.PendingShows, store.Scope{Table: store.TableShows, Where: "needs_sync = 1"}},
		{&s.DirtyMovies, store.Scope{Table: store.TableMovies, Where: "dirty = 1"}},
	}
	for _, c := range counts {
		n, err := st.Count(ctx, c.scope)
		if err != nil {
			return Status{}, err
		}
		*c.dst = n
	}

	if id, ok, err := st.WatchingMovie(ctx); err != nil {
		return Status{}, err
	} else if ok {
		s.Watching = id
	}

	for _, key := range activityKeys {
		at, err := st.Setting(ctx, key)
		if err != nil {
			return Status{}, err
		}
		s.Activity = append(s.Activity, ActivityMark{Key: key, At: at})
	}

	runs, err := st.RecentRuns(ctx, recentRunLimit)
	if err != nil {
		return Status{}, err
	}
	s.RecentRuns = runs
	return s, nil
}
