package membership_test

import (
	"errors"
	"testing"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/membership"
	"github.com/bcnelson/passwd-service/internal/parser"
	"github.com/bcnelson/passwd-service/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, passwd, group string) *memory.Store {
	t.Helper()
	store := memory.New()
	if passwd != "" {
		users, err := parser.ParseUsers(passwd)
		require.NoError(t, err)
		store.PublishUsers(users)
	}
	if group != "" {
		groups, err := parser.ParseGroups(group)
		require.NoError(t, err)
		store.PublishGroups(groups)
	}
	return store
}

func gids(groups []domain.Group) []uint32 {
	out := make([]uint32, len(groups))
	for i, g := range groups {
		out[i] = g.GID
	}
	return out
}

func TestResolve_PrimaryMergedIntoSecondary(t *testing.T) {
	store := newStore(t,
		"kyle:x:1000:1000:,,,:/home/kyle:/bin/bash\n",
		"floppy:x:25:kyle\nkyle:x:1000:\n")

	groups, err := membership.New(store).Resolve(1000)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "floppy", groups[0].Name)
	assert.Equal(t, uint32(25), groups[0].GID)
	assert.Equal(t, "kyle", groups[1].Name)
	assert.Equal(t, uint32(1000), groups[1].GID)
}

func TestResolve_PrimarySortedIntoPlace(t *testing.T) {
	store := newStore(t,
		"amy:x:1001:50:::\n",
		"low:x:10:amy\nprimary:x:50:\nhigh:x:900:amy\n")

	groups, err := membership.New(store).Resolve(1001)
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 50, 900}, gids(groups))
}

func TestResolve_PrimaryAlreadyListed(t *testing.T) {
	store := newStore(t,
		"amy:x:1001:50:::\n",
		"primary:x:50:amy\nother:x:60:amy\n")

	groups, err := membership.New(store).Resolve(1001)
	require.NoError(t, err)
	assert.Equal(t, []uint32{50, 60}, gids(groups))
}

func TestResolve_OnlyPrimary(t *testing.T) {
	store := newStore(t,
		"amy:x:1001:50:::\n",
		"primary:x:50:\n")

	groups, err := membership.New(store).Resolve(1001)
	require.NoError(t, err)
	assert.Equal(t, []uint32{50}, gids(groups))
}

func TestResolve_MissingPrimaryNoSecondary(t *testing.T) {
	store := newStore(t,
		"amy:x:1001:50:::\n",
		"other:x:60:\n")

	groups, err := membership.New(store).Resolve(1001)
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestResolve_MissingPrimaryWithSecondary(t *testing.T) {
	store := newStore(t,
		"amy:x:1001:50:::\n",
		"other:x:60:amy\n")

	groups, err := membership.New(store).Resolve(1001)
	require.NoError(t, err)
	assert.Equal(t, []uint32{60}, gids(groups))
}

func TestResolve_UnknownUser(t *testing.T) {
	store := newStore(t,
		"amy:x:1001:50:::\n",
		"primary:x:50:\n")

	groups, err := membership.New(store).Resolve(4242)
	assert.Nil(t, groups)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResolve_Unavailable(t *testing.T) {
	t.Run("no users", func(t *testing.T) {
		store := newStore(t, "", "primary:x:50:\n")
		_, err := membership.New(store).Resolve(1001)
		assert.True(t, errors.Is(err, domain.ErrUnavailable))
	})

	t.Run("no groups", func(t *testing.T) {
		store := newStore(t, "amy:x:1001:50:::\n", "")
		_, err := membership.New(store).Resolve(1001)
		assert.True(t, errors.Is(err, domain.ErrUnavailable))
	})

	t.Run("unknown user wins over missing groups", func(t *testing.T) {
		store := newStore(t, "amy:x:1001:50:::\n", "")
		_, err := membership.New(store).Resolve(7)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestReconcile_DoesNotMutateSnapshot(t *testing.T) {
	groups, err := parser.ParseGroups("low:x:10:amy\nprimary:x:50:\n")
	require.NoError(t, err)
	user := domain.User{Name: "amy", UID: 1001, GID: 50}

	first := membership.Reconcile(user, groups)
	assert.Equal(t, []uint32{10, 50}, gids(first))
	assert.Equal(t, []uint32{10}, gids(groups.GroupsForMember("amy")))
}
