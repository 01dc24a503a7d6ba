package remote

import (
	"fmt"
	"time"
)

// ItemKind is the closed set of catalog entity kinds.
type ItemKind string

const (
	KindShow    ItemKind = "show"
	KindSeason  ItemKind = "season"
	KindEpisode ItemKind = "episode"
	KindMovie   ItemKind = "movie"
	KindPerson  ItemKind = "person"
	KindList    ItemKind = "list"
	KindComment ItemKind = "comment"
)

// ParseItemKind validates a kind string from the wire.
func ParseItemKind(s string) (ItemKind, error) {
	switch k := ItemKind(s); k {
	case KindShow, KindSeason, KindEpisode, KindMovie, KindPerson, KindList, KindComment:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// IDs carries the identifiers the catalog reports for an entity.
type IDs struct {
	Trakt int64  `json:"trakt"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int64  `json:"tmdb,omitempty"`
	TVDB  int64  `json:"tvdb,omitempty"`
}

type Movie struct {
	Title         string    `json:"title"`
	Year          int       `json:"year"`
	IDs           IDs       `json:"ids"`
	Tagline       string    `json:"tagline,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	Released      string    `json:"released,omitempty"`
	Runtime       int       `json:"runtime,omitempty"`
	Certification string    `json:"certification,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
	Votes         int       `json:"votes,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

type Show struct {
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	IDs       IDs       `json:"ids"`
	Overview  string    `json:"overview,omitempty"`
	Network   string    `json:"network,omitempty"`
	Status    string    `json:"status,omitempty"`
	Runtime   int       `json:"runtime,omitempty"`
	Rating    float64   `json:"rating,omitempty"`
	Votes     int       `json:"votes,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type Season struct {
	Number        int       `json:"number"`
	IDs           IDs       `json:"ids"`
	Title         string    `json:"title,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	EpisodeCount  int       `json:"episode_count,omitempty"`
	AiredEpisodes int       `json:"aired_episodes,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
	Votes         int       `json:"votes,omitempty"`
	Episodes      []Episode `json:"episodes,omitempty"`
}

type Episode struct {
	Season     int        `json:"season"`
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	IDs        IDs        `json:"ids"`
	Overview   string     `json:"overview,omitempty"`
	FirstAired *time.Time `json:"first_aired,omitempty"`
	Runtime    int        `json:"runtime,omitempty"`
	Rating     float64    `json:"rating,omitempty"`
	Votes      int        `json:"votes,omitempty"`
}

type Person struct {
	Name      string `json:"name"`
	IDs       IDs    `json:"ids"`
	Biography string `json:"biography,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	Death     string `json:"death,omitempty"`
	Homepage  string `json:"homepage,omitempty"`
}

type User struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Private  bool   `json:"private"`
	VIP      bool   `json:"vip"`
	Images   struct {
		Avatar struct {
			Full string `json:"full"`
		} `json:"avatar"`
	} `json:"images"`
}

type Comment struct {
	ID         int64     `json:"id"`
	ParentID   int64     `json:"parent_id"`
	Comment    string    `json:"comment"`
	Spoiler    bool      `json:"spoiler"`
	Review     bool      `json:"review"`
	Replies    int       `json:"replies"`
	Likes      int       `json:"likes"`
	UserRating int       `json:"user_rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       User      `json:"user"`
}

type CastMember struct {
	Character string `json:"character"`
	Person    Person `json:"person"`
}

type CrewMember struct {
	Job    string `json:"job"`
	Person Person `json:"person"`
}

// Credits is the people credited on a movie or show. Crew is keyed by
// department.
type Credits struct {
	Cast []CastMember           `json:"cast"`
	Crew map[string][]CrewMember `json:"crew"`
}

type MovieCastCredit struct {
	Character string `json:"character"`
	Movie     Movie  `json:"movie"`
}

type MovieCrewCredit struct {
	Job   string `json:"job"`
	Movie Movie  `json:"movie"`
}

// PersonMovieCredits is a person's filmography.
type PersonMovieCredits struct {
	Cast []MovieCastCredit            `json:"cast"`
	Crew map[string][]MovieCrewCredit `json:"crew"`
}

type TrendingMovie struct {
	Watchers int   `json:"watchers"`
	Movie    Movie `json:"movie"`
}

type TrendingShow struct {
	Watchers int  `json:"watchers"`
	Show     Show `json:"show"`
}

type AnticipatedMovie struct {
	ListCount int   `json:"list_count"`
	Movie     Movie `json:"movie"`
}

type List struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Privacy     string    `json:"privacy,omitempty"`
	ItemCount   int       `json:"item_count"`
	Likes       int       `json:"likes"`
	IDs         IDs       `json:"ids"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `json:"user"`
}

// ListEntry is one item of a list. Type selects which pointer is set.
type ListEntry struct {
	Rank     int       `json:"rank"`
	ListedAt time.Time `json:"listed_at"`
	Type     ItemKind  `json:"type"`
	Movie    *Movie    `json:"movie,omitempty"`
	Show     *Show     `json:"show,omitempty"`
	Season   *Season   `json:"season,omitempty"`
	Episode  *Episode  `json:"episode,omitempty"`
	Person   *Person   `json:"person,omitempty"`
}

type WatchlistMovie struct {
	Rank     int       `json:"rank"`
	ListedAt time.Time `json:"listed_at"`
	Movie    Movie     `json:"movie"`
}

type WatchedMovie struct {
	Plays         int       `json:"plays"`
	LastWatchedAt time.Time `json:"last_watched_at"`
	Movie         Movie     `json:"movie"`
}

// WatchedShow is a show with the episodes the user has played.
type WatchedShow struct {
	Plays         int             `json:"plays"`
	LastWatchedAt time.Time       `json:"last_watched_at"`
	Show          Show            `json:"show"`
	Seasons       []WatchedSeason `json:"seasons"`
}

type WatchedSeason struct {
	Number   int              `json:"number"`
	Episodes []WatchedEpisode `json:"episodes"`
}

type WatchedEpisode struct {
	Number        int       `json:"number"`
	Plays         int       `json:"plays"`
	LastWatchedAt time.Time `json:"last_watched_at"`
}

// HiddenItem is an entry hidden from recommendations.
type HiddenItem struct {
	HiddenAt time.Time `json:"hidden_at"`
	Type     ItemKind  `json:"type"`
	Movie    *Movie    `json:"movie,omitempty"`
	Show     *Show     `json:"show,omitempty"`
}

// LikedItem is something the user liked. Only comments are mirrored.
type LikedItem struct {
	LikedAt time.Time `json:"liked_at"`
	Type    ItemKind  `json:"type"`
	Comment *Comment  `json:"comment,omitempty"`
	List    *List     `json:"list,omitempty"`
}

// Watching is what the user is currently checked in to.
type Watching struct {
	ExpiresAt time.Time `json:"expires_at"`
	StartedAt time.Time `json:"started_at"`
	Action    string    `json:"action"`
	Type      ItemKind  `json:"type"`
	Movie     *Movie    `json:"movie,omitempty"`
	Show      *Show     `json:"show,omitempty"`
	Episode   *Episode  `json:"episode,omitempty"`
}

// Checkin is the result of checking in to a movie.
type Checkin struct {
	ID        int64     `json:"id"`
	WatchedAt time.Time `json:"watched_at"`
	Movie     Movie     `json:"movie"`
}

// Activity groups per-kind "last changed at" marks.
type Activity struct {
	WatchedAt     time.Time `json:"watched_at"`
	RatedAt       time.Time `json:"rated_at"`
	WatchlistedAt time.Time `json:"watchlisted_at"`
	CommentedAt   time.Time `json:"commented_at"`
	HiddenAt      time.Time `json:"recommendations_at"`
}

// LastActivities reports when each user collection last changed upstream.
type LastActivities struct {
	All      time.Time `json:"all"`
	Movies   Activity  `json:"movies"`
	Shows    Activity  `json:"shows"`
	Episodes Activity  `json:"episodes"`
	Comments struct {
		LikedAt time.Time `json:"liked_at"`
	} `json:"comments"`
	Lists struct {
		UpdatedAt time.Time `json:"updated_at"`
		LikedAt   time.Time `json:"liked_at"`
	} `json:"lists"`
}
