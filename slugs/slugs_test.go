package slugs

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setLookup is a Lookup over an in-memory slug -> id table.
func setLookup(taken map[string]int) Lookup {
	return func(_ context.Context, candidate string, excludeID int) (bool, error) {
		id, ok := taken[candidate]
		return ok && id != excludeID, nil
	}
}

func TestBuildBase(t *testing.T) {
	tests := []struct {
		name   string
		maxLen int
		parts  []string
		want   string
	}{
		{name: "joins slugified parts", maxLen: 255, parts: []string{"MPL PH", "groups", "o1"}, want: "mpl-ph-groups-o1"},
		{name: "drops empty parts", maxLen: 255, parts: []string{" MSC 2024 ", "", "  ", "Finals"}, want: "msc-2024-finals"},
		{name: "truncates", maxLen: 6, parts: []string{"abcdef", "ghi"}, want: "abcdef"},
		{name: "nothing usable", maxLen: 255, parts: []string{"", "!!"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildBase(tt.maxLen, tt.parts...))
		})
	}
}

func TestStageBase(t *testing.T) {
	assert.Equal(t, "mpl-ph-s13-playoffs-upper-bracket-o3", StageBase("mpl-ph-s13", "PLAYOFFS", "Upper Bracket", 3))
	assert.Equal(t, "mpl-ph-wild-card-o1", StageBase("MPL PH", "WILD CARD", "", 1))
	assert.LessOrEqual(t, len(StageBase(strings.Repeat("long-name-", 10), "GROUP", "", 1)), StageMaxLen)
}

func TestEnsureUnique(t *testing.T) {
	ctx := context.Background()

	t.Run("unused base returned as is", func(t *testing.T) {
		got, err := EnsureUnique(ctx, "mpl-ph-groups-o1", setLookup(map[string]int{}), 0, StageMaxLen)
		require.NoError(t, err)
		assert.Equal(t, "mpl-ph-groups-o1", got)
	})

	t.Run("collisions get suffixed in creation order", func(t *testing.T) {
		taken := map[string]int{}
		lookup := setLookup(taken)

		first, err := EnsureUnique(ctx, "mpl-ph-groups-o1", lookup, 0, StageMaxLen)
		require.NoError(t, err)
		taken[first] = 1

		second, err := EnsureUnique(ctx, "mpl-ph-groups-o1", lookup, 0, StageMaxLen)
		require.NoError(t, err)
		taken[second] = 2

		third, err := EnsureUnique(ctx, "mpl-ph-groups-o1", lookup, 0, StageMaxLen)
		require.NoError(t, err)

		assert.Equal(t, "mpl-ph-groups-o1", first)
		assert.Equal(t, "mpl-ph-groups-o1-2", second)
		assert.Equal(t, "mpl-ph-groups-o1-3", third)
	})

	t.Run("own slug is not a collision", func(t *testing.T) {
		got, err := EnsureUnique(ctx, "mpl-ph", setLookup(map[string]int{"mpl-ph": 7}), 7, DefaultMaxLen)
		require.NoError(t, err)
		assert.Equal(t, "mpl-ph", got)
	})

	t.Run("suffix respects max length", func(t *testing.T) {
		base := strings.Repeat("a", 10)
		got, err := EnsureUnique(ctx, base, setLookup(map[string]int{base: 1}), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, "aaaaaaaa-2", got)
		assert.Len(t, got, 10)
	})

	t.Run("empty base falls back", func(t *testing.T) {
		got, err := EnsureUnique(ctx, "", setLookup(map[string]int{}), 0, DefaultMaxLen)
		require.NoError(t, err)
		assert.Equal(t, "item", got)
	})

	t.Run("lookup errors propagate", func(t *testing.T) {
		boom := errors.New("connection reset")
		_, err := EnsureUnique(ctx, "x", func(context.Context, string, int) (bool, error) { return false, boom }, 0, 0)
		assert.ErrorIs(t, err, boom)
	})
}

func TestEnsureUnique_RandomStageNames(t *testing.T) {
	faker := gofakeit.New(20240301)
	ctx := context.Background()

	// A small pool forces collisions; the long name forces truncation.
	pool := []string{faker.Company(), faker.Company(), faker.Company(), faker.LetterN(70)}
	stageTypes := []string{"GROUP", "PLAYOFFS", "WILDCARD"}

	taken := map[string]int{}
	valid := regexp.MustCompile(`^[a-z0-9-]+$`)

	for id := 1; id <= 200; id++ {
		base := StageBase(
			pool[faker.Number(0, len(pool)-1)],
			stageTypes[faker.Number(0, len(stageTypes)-1)],
			"",
			faker.Number(1, 3),
		)
		got, err := EnsureUnique(ctx, base, setLookup(taken), 0, StageMaxLen)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(got), StageMaxLen, got)
		assert.Regexp(t, valid, got)
		_, dup := taken[got]
		require.False(t, dup, "slug %q allocated twice", got)
		taken[got] = id
	}
}
