package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/reelsync/internal/action"
	"github.com/roach88/reelsync/internal/actions"
	"github.com/roach88/reelsync/internal/store"
)

// EditResult is the payload reported after a local edit was pushed.
type EditResult struct {
	Edit    string `json:"edit"`
	TraktID int64  `json:"trakt_id,omitempty"`
	Value   string `json:"value,omitempty"`
}

func (r EditResult) String() string {
	switch {
	case r.TraktID == 0:
		return r.Edit
	case r.Value == "":
		return fmt.Sprintf("%s movie %d", r.Edit, r.TraktID)
	}
	return fmt.Sprintf("%s movie %d: %s", r.Edit, r.TraktID, r.Value)
}

// NewRateCommand creates the rate command.
func NewRateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate an item",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "movie <id> <rating>",
		Short: "Rate a movie from 1 to 10",
		Long: `Rate a movie from 1 to 10.

The rating is stored locally first. If the push fails it stays pending and
is retried by "reelsync sync push" or the run daemon.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRate(cmd, rootOpts, args[0], args[1])
		},
	})
	return cmd
}

func runRate(cmd *cobra.Command, opts *RootOptions, rawID, rawRating string) error {
	f := formatter(cmd, opts)

	id, err := parseID(rawID)
	if err != nil {
		return report(f, err)
	}
	rating, err := strconv.Atoi(rawRating)
	if err != nil || rating < 1 || rating > 10 {
		return report(f, NewExitError(ExitCommandError, fmt.Sprintf("rating must be 1-10, got %q", rawRating)))
	}

	a, err := openApp(cmd, opts, false)
	if err != nil {
		return report(f, err)
	}
	defer a.close()

	ctx := commandContext(cmd)
	if err := ensureMovie(ctx, a, id); err != nil {
		return report(f, err)
	}
	if err := a.store.MarkMovieRating(ctx, id, rating); err != nil {
		return report(f, err)
	}

	if err := action.InvokeSync(ctx, a.manager, a.reg.RateMovie, actions.Rating{TraktID: id, Rating: rating}); err != nil {
		return reportPending(f, a, "rating", id, err)
	}
	return f.Success(EditResult{Edit: "rated", TraktID: id, Value: fmt.Sprintf("%d/10", rating)})
}

// WatchlistOptions holds flags for the watchlist command.
type WatchlistOptions struct {
	*RootOptions
	Add    bool
	Remove bool
}

// NewWatchlistCommand creates the watchlist command.
func NewWatchlistCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchlistOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Edit the watchlist",
	}
	movie := &cobra.Command{
		Use:   "movie <id>",
		Short: "Add a movie to or remove it from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchlist(cmd, opts, args[0])
		},
	}
	movie.Flags().BoolVar(&opts.Add, "add", false, "add to the watchlist")
	movie.Flags().BoolVar(&opts.Remove, "remove", false, "remove from the watchlist")
	movie.MarkFlagsMutuallyExclusive("add", "remove")
	movie.MarkFlagsOneRequired("add", "remove")
	cmd.AddCommand(movie)

	return cmd
}

func runWatchlist(cmd *cobra.Command, opts *WatchlistOptions, rawID string) error {
	f := formatter(cmd, opts.RootOptions)

	id, err := parseID(rawID)
	if err != nil {
		return report(f, err)
	}

	a, err := openApp(cmd, opts.RootOptions, false)
	if err != nil {
		return report(f, err)
	}
	defer a.close()

	ctx := commandContext(cmd)
	if err := ensureMovie(ctx, a, id); err != nil {
		return report(f, err)
	}
	if err := a.store.MarkMovieWatchlist(ctx, id, opts.Add); err != nil {
		return report(f, err)
	}

	edit := actions.WatchlistEdit{TraktID: id, InWatchlist: opts.Add}
	if err := action.InvokeSync(ctx, a.manager, a.reg.SetMovieWatchlist, edit); err != nil {
		return reportPending(f, a, "watchlist edit", id, err)
	}

	result := EditResult{Edit: "removed from watchlist", TraktID: id}
	if opts.Add {
		result.Edit = "added to watchlist"
	}
	return f.Success(result)
}

// CheckinOptions holds flags for the checkin command.
type CheckinOptions struct {
	*RootOptions
	Message string
}

// NewCheckinCommand creates the checkin command.
func NewCheckinCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckinOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check in to a movie or cancel the active check-in",
	}
	movie := &cobra.Command{
		Use:   "movie <id>",
		Short: "Check in to a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckin(cmd, opts, args[0])
		},
	}
	movie.Flags().StringVarP(&opts.Message, "message", "m", "", "check-in message")
	cmd.AddCommand(movie)

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel",
		Short: "Cancel the active check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCancelCheckin(cmd, rootOpts)
		},
	})
	return cmd
}

func runCheckin(cmd *cobra.Command, opts *CheckinOptions, rawID string) error {
	f := formatter(cmd, opts.RootOptions)

	id, err := parseID(rawID)
	if err != nil {
		return report(f, err)
	}

	a, err := openApp(cmd, opts.RootOptions, false)
	if err != nil {
		return report(f, err)
	}
	defer a.close()

	checkin := actions.CheckIn{TraktID: id, Message: opts.Message}
	if err := action.InvokeSync(commandContext(cmd), a.manager, a.reg.CheckInMovie, checkin); err != nil {
		return report(f, err)
	}
	return f.Success(EditResult{Edit: "checked in", TraktID: id})
}

func runCancelCheckin(cmd *cobra.Command, opts *RootOptions) error {
	f := formatter(cmd, opts)

	a, err := openApp(cmd, opts, false)
	if err != nil {
		return report(f, err)
	}
	defer a.close()

	if err := action.InvokeSync(commandContext(cmd), a.manager, a.reg.CancelCheckin, struct{}{}); err != nil {
		return report(f, err)
	}
	return f.Success(EditResult{Edit: "check-in cancelled"})
}

// ensureMovie creates and fetches the movie when it is not stored yet, so
// local edits always have a row to land on.
func ensureMovie(ctx context.Context, a *app, traktID int64) error {
	_, created, err := a.store.IDOrCreate(ctx, store.TableMovies, traktID)
	if err != nil || !created {
		return err
	}
	a.logger.Debug("movie not stored, fetching", "trakt_id", traktID)
	return action.InvokeSync(ctx, a.manager, a.reg.SyncMovie, traktID)
}

// reportPending reports a push failure for an edit that stays queued locally.
func reportPending(f *OutputFormatter, a *app, what string, traktID int64, err error) error {
	a.logger.Warn("push failed, edit kept pending", "trakt_id", traktID, "error", err)
	_ = f.Error(ErrCodePushQueue,
		fmt.Sprintf("%s for movie %d saved locally, push failed: %v", what, traktID, err), nil)
	return WrapExitError(ExitFailure, "push failed", err)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
