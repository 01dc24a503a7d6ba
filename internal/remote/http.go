package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Header names used by the catalog API.
const (
	headerAPIKey     = "trakt-api-key"
	headerAPIVersion = "trakt-api-version"
	headerPage       = "X-Pagination-Page"
	headerLimit      = "X-Pagination-Limit"
	headerPageCount  = "X-Pagination-Page-Count"
	headerItemCount  = "X-Pagination-Item-Count"
)

const (
	defaultBaseURL     = "https://api.trakt.tv"
	defaultRatePerSec  = 3
	defaultBurst       = 5
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 4096
)

// HTTPClient implements Catalog over the catalog's JSON HTTP API.
type HTTPClient struct {
	baseURL  string
	clientID string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithBaseURL overrides the API root, e.g. for tests against httptest.
func WithBaseURL(u string) HTTPOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64, burst int) HTTPOption {
	return func(c *HTTPClient) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// WithHTTPTimeout sets the per-request timeout of the underlying client.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// NewHTTPClient creates a catalog client. The access token is sent as a
// bearer token; an empty token makes anonymous requests, which is enough for
// public listings.
func NewHTTPClient(clientID, accessToken string, opts ...HTTPOption) *HTTPClient {
	base := &http.Client{Timeout: defaultHTTPTimeout}

	httpClient := base
	if accessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = defaultHTTPTimeout
	}

	c := &HTTPClient{
		baseURL:  defaultBaseURL,
		clientID: clientID,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(defaultRatePerSec), defaultBurst),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Catalog = (*HTTPClient)(nil)

// response is what do hands back for a completed request.
type response struct {
	status int
	header http.Header
}

// do performs one request. A 204 leaves out untouched.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) (response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return response{}, &TransportError{Method: method, Path: path, Err: err}
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return response{}, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(headerAPIVersion, "2")
	req.Header.Set(headerAPIKey, c.clientID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, &TransportError{Method: method, Path: path, Err: err}
	}
	payload, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	c.logger.Debug("catalog request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if readErr != nil {
		return response{}, &TransportError{Method: method, Path: path, Err: readErr}
	}
	if resp.StatusCode >= 400 {
		return response{}, decodeAPIError(resp.StatusCode, payload)
	}

	r := response{status: resp.StatusCode, header: resp.Header}
	if resp.StatusCode == http.StatusNoContent || out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return response{}, &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode body: %w", err)}
	}
	return r, nil
}

func decodeAPIError(status int, payload []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.ErrorDescription
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		if len(payload) > maxErrorBody {
			payload = payload[:maxErrorBody]
		}
		apiErr.Message = strings.TrimSpace(string(payload))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, query, nil, out)
	return err
}

// getPage fetches one page of a paginated listing.
func getPage[T any](ctx context.Context, c *HTTPClient, path string, query url.Values, page, limit int) (Page[T], error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var items []T
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, &items)
	if err != nil {
		return Page[T]{}, err
	}

	p := Page[T]{
		Items:     items,
		Page:      page,
		Limit:     limit,
		PageCount: headerInt(resp.header, headerPageCount),
		ItemCount: headerInt(resp.header, headerItemCount),
	}
	if n := headerInt(resp.header, headerPage); n > 0 {
		p.Page = n
	}
	if n := headerInt(resp.header, headerLimit); n > 0 {
		p.Limit = n
	}
	return p, nil
}

func headerInt(h http.Header, name string) int {
	if h == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(name)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func (c *HTTPClient) Movie(ctx context.Context, traktID int64) (Movie, error) {
	var m Movie
	err := c.get(ctx, "/movies/"+id(traktID), url.Values{"extended": {"full"}}, &m)
	return m, err
}

func (c *HTTPClient) Show(ctx context.Context, traktID int64) (Show, error) {
	var s Show
	err := c.get(ctx, "/shows/"+id(traktID), url.Values{"extended": {"full"}}, &s)
	return s, err
}

func (c *HTTPClient) Seasons(ctx context.Context, showTraktID int64) ([]Season, error) {
	seasons := []Season{}
	err := c.get(ctx, "/shows/"+id(showTraktID)+"/seasons", url.Values{"extended": {"full,episodes"}}, &seasons)
	return seasons, err
}

func (c *HTTPClient) MovieCredits(ctx context.Context, traktID int64) (Credits, error) {
	var cr Credits
	err := c.get(ctx, "/movies/"+id(traktID)+"/people", nil, &cr)
	return cr, err
}

func (c *HTTPClient) ShowCredits(ctx context.Context, traktID int64) (Credits, error) {
	var cr Credits
	err := c.get(ctx, "/shows/"+id(traktID)+"/people", nil, &cr)
	return cr, err
}

func (c *HTTPClient) PersonMovieCredits(ctx context.Context, personTraktID int64) (PersonMovieCredits, error) {
	var cr PersonMovieCredits
	err := c.get(ctx, "/people/"+id(personTraktID)+"/movies", nil, &cr)
	return cr, err
}

func (c *HTTPClient) RelatedMovies(ctx context.Context, traktID int64) ([]Movie, error) {
	movies := []Movie{}
	err := c.get(ctx, "/movies/"+id(traktID)+"/related", url.Values{"limit": {"10"}}, &movies)
	return movies, err
}

func (c *HTTPClient) List(ctx context.Context, traktID int64) (List, error) {
	var l List
	err := c.get(ctx, "/lists/"+id(traktID), nil, &l)
	return l, err
}

func (c *HTTPClient) ListItems(ctx context.Context, traktID int64) ([]ListEntry, error) {
	items := []ListEntry{}
	err := c.get(ctx, "/lists/"+id(traktID)+"/items", nil, &items)
	return items, err
}

func (c *HTTPClient) MovieComments(ctx context.Context, traktID int64, page, limit int) (Page[Comment], error) {
	return getPage[Comment](ctx, c, "/movies/"+id(traktID)+"/comments/newest", nil, page, limit)
}

func (c *HTTPClient) ShowComments(ctx context.Context, traktID int64, page, limit int) (Page[Comment], error) {
	return getPage[Comment](ctx, c, "/shows/"+id(traktID)+"/comments/newest", nil, page, limit)
}

func (c *HTTPClient) EpisodeComments(ctx context.Context, showTraktID int64, season, episode, page, limit int) (Page[Comment], error) {
	path := fmt.Sprintf("/shows/%d/seasons/%d/episodes/%d/comments/newest", showTraktID, season, episode)
	return getPage[Comment](ctx, c, path, nil, page, limit)
}

func (c *HTTPClient) CommentReplies(ctx context.Context, commentID int64, page, limit int) (Page[Comment], error) {
	return getPage[Comment](ctx, c, "/comments/"+id(commentID)+"/replies", nil, page, limit)
}

func (c *HTTPClient) LikedComments(ctx context.Context, page, limit int) (Page[LikedItem], error) {
	return getPage[LikedItem](ctx, c, "/users/likes/comments", nil, page, limit)
}

func (c *HTTPClient) TrendingMovies(ctx context.Context, page, limit int) (Page[TrendingMovie], error) {
	return getPage[TrendingMovie](ctx, c, "/movies/trending", nil, page, limit)
}

func (c *HTTPClient) TrendingShows(ctx context.Context, page, limit int) (Page[TrendingShow], error) {
	return getPage[TrendingShow](ctx, c, "/shows/trending", nil, page, limit)
}

func (c *HTTPClient) AnticipatedMovies(ctx context.Context, page, limit int) (Page[AnticipatedMovie], error) {
	return getPage[AnticipatedMovie](ctx, c, "/movies/anticipated", nil, page, limit)
}

func (c *HTTPClient) HiddenRecommendations(ctx context.Context, page, limit int) (Page[HiddenItem], error) {
	return getPage[HiddenItem](ctx, c, "/users/hidden/recommendations", nil, page, limit)
}

func (c *HTTPClient) LastActivities(ctx context.Context) (LastActivities, error) {
	var la LastActivities
	err := c.get(ctx, "/sync/last_activities", nil, &la)
	return la, err
}

func (c *HTTPClient) MoviesWatchlist(ctx context.Context) ([]WatchlistMovie, error) {
	items := []WatchlistMovie{}
	err := c.get(ctx, "/sync/watchlist/movies", nil, &items)
	return items, err
}

func (c *HTTPClient) WatchedMovies(ctx context.Context) ([]WatchedMovie, error) {
	items := []WatchedMovie{}
	err := c.get(ctx, "/sync/watched/movies", nil, &items)
	return items, err
}

func (c *HTTPClient) WatchedShows(ctx context.Context) ([]WatchedShow, error) {
	items := []WatchedShow{}
	err := c.get(ctx, "/sync/watched/shows", nil, &items)
	return items, err
}

func (c *HTTPClient) Watching(ctx context.Context, username string) (*Watching, error) {
	var w Watching
	resp, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username)+"/watching", nil, nil, &w)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNoContent {
		return nil, nil
	}
	return &w, nil
}

type movieRef struct {
	IDs    IDs `json:"ids"`
	Rating int `json:"rating,omitempty"`
}

type moviesBody struct {
	Movies []movieRef `json:"movies"`
}

func (c *HTTPClient) RateMovie(ctx context.Context, traktID int64, rating int) error {
	path := "/sync/ratings"
	if rating == 0 {
		path = "/sync/ratings/remove"
	}
	body := moviesBody{Movies: []movieRef{{IDs: IDs{Trakt: traktID}, Rating: rating}}}
	_, err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	return err
}

func (c *HTTPClient) SetMovieWatchlist(ctx context.Context, traktID int64, inWatchlist bool) error {
	path := "/sync/watchlist"
	if !inWatchlist {
		path = "/sync/watchlist/remove"
	}
	body := moviesBody{Movies: []movieRef{{IDs: IDs{Trakt: traktID}}}}
	_, err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	return err
}

func (c *HTTPClient) CheckInMovie(ctx context.Context, traktID int64, message string) (Checkin, error) {
	body := struct {
		Movie   movieRef `json:"movie"`
		Message string   `json:"message,omitempty"`
	}{Movie: movieRef{IDs: IDs{Trakt: traktID}}, Message: message}

	var ci Checkin
	_, err := c.do(ctx, http.MethodPost, "/checkin", nil, body, &ci)
	return ci, err
}

func (c *HTTPClient) CancelCheckin(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/checkin", nil, nil, nil)
	return err
}
