package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mbeier/famsync/internal/model"
	"github.com/mbeier/famsync/internal/testutil"
)

const testOrigin = "https://famsync.test"

func newFamilyService(registry model.RemoteRegistry) (*Family, *memFamilyCache, *memSessionStore) {
	cache := newMemFamilyCache()
	session := newMemSessionStore()
	svc := NewFamily(cache, session, registry, testOrigin, time.Second, testutil.MakeNoopLogger())
	return svc, cache, session
}

func TestFamilyService_Create_CodeFormat(t *testing.T) {
	svc, _, _ := newFamilyService(nil)

	family, link, err := svc.Create(context.Background(), "Smiths")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), family.Code)
	assert.Equal(t, "Smiths", family.Name)
	assert.Empty(t, family.Admin)
	assert.Empty(t, family.Members)
	assert.NotEmpty(t, family.ID)
	assert.Equal(t, testOrigin+"?join="+family.Code, link)
}

func TestFamilyService_Create_ThenLookup(t *testing.T) {
	svc, _, _ := newFamilyService(nil)

	family, _, err := svc.Create(context.Background(), "Smiths")
	require.NoError(t, err)

	found, err := svc.Lookup(context.Background(), family.Code)
	require.NoError(t, err)
	assert.Equal(t, family.ID, found.ID)
	assert.Empty(t, found.Members)
	assert.Empty(t, found.Admin)
}

func TestFamilyService_Create_EmptyName(t *testing.T) {
	svc, _, _ := newFamilyService(nil)

	_, _, err := svc.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, model.ErrEmptyName)
}

func TestFamilyService_Create_PublishesRemote(t *testing.T) {
	registry := newMemRegistry()
	svc, _, _ := newFamilyService(registry)

	family, _, err := svc.Create(context.Background(), "Smiths")
	require.NoError(t, err)

	stored, err := registry.ReadFamily(context.Background(), family.Code)
	require.NoError(t, err)
	assert.Equal(t, family.ID, stored.ID)
}

func TestFamilyService_Create_RemoteDownStillSucceeds(t *testing.T) {
	registry := newMemRegistry()
	registry.setDown(true)
	svc, cache, _ := newFamilyService(registry)

	family, _, err := svc.Create(context.Background(), "Smiths")
	require.NoError(t, err)

	cached, err := cache.Get(context.Background(), family.Code)
	require.NoError(t, err)
	assert.Equal(t, family.ID, cached.ID)
}

func TestFamilyService_Lookup_CaseInsensitive(t *testing.T) {
	svc, _, _ := newFamilyService(nil)

	family, _, err := svc.Create(context.Background(), "Smiths")
	require.NoError(t, err)

	found, err := svc.Lookup(context.Background(), "  "+strings.ToLower(family.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, family.ID, found.ID)
}

func TestFamilyService_Lookup_RemoteHitUpdatesCache(t *testing.T) {
	registry := newMemRegistry()
	remoteOnly := model.FamilyProfile{
		ID:        "fam-1",
		Name:      "Smiths",
		Code:      "AB12CD",
		Members:   []model.Member{},
		CreatedAt: time.Now(),
	}
	require.NoError(t, registry.WriteFamily(context.Background(), remoteOnly))

	svc, cache, _ := newFamilyService(registry)

	found, err := svc.Lookup(context.Background(), "ab12cd")
	require.NoError(t, err)
	assert.Equal(t, "fam-1", found.ID)

	// Read-through: the cache answers even after the remote goes away.
	registry.setDown(true)
	cached, err := cache.Get(context.Background(), "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "fam-1", cached.ID)
}

func TestFamilyService_Lookup_FallsBackToCacheWhenRemoteDown(t *testing.T) {
	registry := newMemRegistry()
	svc, cache, _ := newFamilyService(registry)

	family := model.FamilyProfile{ID: "fam-2", Name: "Lee", Code: "ZZ99XX"}
	require.NoError(t, cache.Put(context.Background(), family))

	registry.setDown(true)

	found, err := svc.Lookup(context.Background(), "zz99xx")
	require.NoError(t, err)
	assert.Equal(t, "fam-2", found.ID)
}

func TestFamilyService_Lookup_NotFoundWhenBothMiss(t *testing.T) {
	registry := newMemRegistry()
	svc, _, _ := newFamilyService(registry)

	_, err := svc.Lookup(context.Background(), "NOPE42")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFamilyService_Join_SelectsFamily(t *testing.T) {
	svc, _, session := newFamilyService(nil)

	family, _, err := svc.Create(context.Background(), "Smiths")
	require.NoError(t, err)

	joined, err := svc.Join(context.Background(), family.Code)
	require.NoError(t, err)
	assert.Equal(t, family.ID, joined.ID)

	selected, err := session.SelectedFamily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, family.ID, selected.ID)
}

func TestFamilyService_Join_UnknownCode(t *testing.T) {
	svc, _, _ := newFamilyService(nil)

	_, err := svc.Join(context.Background(), "AAAAAA")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFamilyService_RemoteProbeTimeout(t *testing.T) {
	registry := &MockRemoteRegistry{}
	registry.On("Available", mock.Anything).Return(false)

	cache := newMemFamilyCache()
	family := model.FamilyProfile{ID: "fam-3", Name: "Kim", Code: "KM11KM"}
	require.NoError(t, cache.Put(context.Background(), family))

	svc := NewFamily(cache, newMemSessionStore(), registry, testOrigin, time.Millisecond, testutil.MakeNoopLogger())

	found, err := svc.Lookup(context.Background(), "KM11KM")
	require.NoError(t, err)
	assert.Equal(t, "fam-3", found.ID)
	registry.AssertNotCalled(t, "ReadFamily", mock.Anything, mock.Anything)
}

func TestParseJoinLink(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		wantCode string
		wantOK   bool
	}{
		{name: "plain link", rawURL: "https://famsync.test?join=AB12CD", wantCode: "AB12CD", wantOK: true},
		{name: "lowercase code", rawURL: "https://famsync.test?join=ab12cd", wantCode: "AB12CD", wantOK: true},
		{name: "extra params", rawURL: "https://famsync.test/?utm=x&join=QQ00QQ", wantCode: "QQ00QQ", wantOK: true},
		{name: "no join param", rawURL: "https://famsync.test/?utm=x", wantOK: false},
		{name: "garbage", rawURL: "://", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ParseJoinLink(tt.rawURL)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantCode, code)
			}
		})
	}
}
