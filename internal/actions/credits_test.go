package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/reelsync/internal/remote"
	"github.com/roach88/reelsync/internal/store"
)

func person(traktID int64, name string) remote.Person {
	return remote.Person{Name: name, IDs: remote.IDs{Trakt: traktID, Slug: name}}
}

func TestSyncMovieCredits_CastOrderAndCrewJobs(t *testing.T) {
	e := newEnv(t)
	e.movie(t, 1, store.Values{"title": "heat"})

	gomock.InOrder(
		e.cat.EXPECT().MovieCredits(gomock.Any(), int64(1)).Return(remote.Credits{
			Cast: []remote.CastMember{
				{Character: "McCauley", Person: person(100, "de-niro")},
				{Character: "Hanna", Person: person(101, "pacino")},
			},
			Crew: map[string][]remote.CrewMember{
				"writing":   {{Job: "Screenplay", Person: person(200, "mann")}},
				"directing": {{Job: "Director", Person: person(200, "mann")}},
			},
		}, nil),
		e.cat.EXPECT().MovieCredits(gomock.Any(), int64(1)).Return(remote.Credits{
			Cast: []remote.CastMember{
				{Character: "Hanna", Person: person(101, "pacino")},
			},
			Crew: map[string][]remote.CrewMember{
				"directing": {{Job: "Director", Person: person(200, "mann")}},
			},
		}, nil),
	)

	require.NoError(t, run(t, e, e.reg.SyncMovieCredits, 1))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM movie_cast"))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM movie_crew"), "one person, two jobs")
	assert.Equal(t, int64(1), e.queryInt(t, `
		SELECT c.cast_index FROM movie_cast c JOIN people p ON p.id = c.person_id WHERE p.trakt_id = 101`))
	assert.Equal(t, now, e.queryInt(t, "SELECT last_credits_sync FROM movies WHERE trakt_id = 1"))

	require.NoError(t, run(t, e, e.reg.SyncMovieCredits, 1))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM movie_cast"))
	assert.Equal(t, int64(0), e.queryInt(t, `
		SELECT c.cast_index FROM movie_cast c JOIN people p ON p.id = c.person_id WHERE p.trakt_id = 101`))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM movie_crew"))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM people WHERE trakt_id = 100"),
		"people outlive their credits")
}

func TestSyncMovieCredits_MissingMovie(t *testing.T) {
	e := newEnv(t)
	e.cat.EXPECT().MovieCredits(gomock.Any(), int64(7)).Return(remote.Credits{}, nil)

	err := run(t, e, e.reg.SyncMovieCredits, 7)
	assert.True(t, store.IsMissingRow(err))
}

func TestSyncPersonMovieCredits_CreatesBareMovies(t *testing.T) {
	e := newEnv(t)
	_, err := e.st.UpsertByTraktID(context.Background(), store.TablePeople, 200, store.Values{"name": "mann"})
	require.NoError(t, err)

	e.cat.EXPECT().PersonMovieCredits(gomock.Any(), int64(200)).Return(remote.PersonMovieCredits{
		Cast: []remote.MovieCastCredit{{Character: "himself", Movie: movieOf(3, "doc")}},
		Crew: map[string][]remote.MovieCrewCredit{
			"directing": {{Job: "Director", Movie: movieOf(1, "heat")}, {Job: "Director", Movie: movieOf(2, "thief")}},
		},
	}, nil)

	require.NoError(t, run(t, e, e.reg.SyncPersonMovieCredits, 200))
	assert.Equal(t, int64(1), e.queryInt(t, "SELECT COUNT(*) FROM movie_cast"))
	assert.Equal(t, int64(2), e.queryInt(t, "SELECT COUNT(*) FROM movie_crew"))
	assert.Equal(t, int64(3), e.queryInt(t, "SELECT COUNT(*) FROM movies WHERE needs_sync = 1"))
	assert.Equal(t, now, e.queryInt(t, "SELECT last_credits_sync FROM people WHERE trakt_id = 200"))
}
