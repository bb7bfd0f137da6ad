package sightings

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/silktrader/gliderwatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(email string, n int) NewSighting {
	return NewSighting{
		ReportData: ReportData{
			FirstName:   "Ada",
			Email:       email,
			Description: fmt.Sprintf("glider %d", n),
			Postcode:    "2000",
			Location:    "Sydney",
		},
		Latitude:  sql.NullString{String: "-33.8688", Valid: true},
		Longitude: sql.NullString{String: "151.2093", Valid: true},
	}
}

func TestTotalPages(t *testing.T) {
	for _, tt := range []struct{ count, want int }{
		{0, 0}, {1, 1}, {5, 1}, {6, 2}, {10, 2}, {11, 3},
	} {
		assert.Equal(t, tt.want, TotalPages(tt.count, 5), "count %d", tt.count)
	}
}

func TestStore_PagesNewestFirst(t *testing.T) {
	store := NewStore(testutil.OpenDB(t))
	ctx := context.Background()

	var ids []int64
	for i := 1; i <= 6; i++ {
		id, err := store.Insert(ctx, report("ada@example.com", i))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := store.Insert(ctx, report("grace@example.com", 7))
	require.NoError(t, err)

	count, err := store.CountByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 6, count)
	assert.Equal(t, 2, TotalPages(count, 5))

	first, err := store.PageByEmail(ctx, "ada@example.com", 1, 5)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, ids[5], first[0].Id)
	assert.Equal(t, ids[1], first[4].Id)

	second, err := store.PageByEmail(ctx, "ada@example.com", 2, 5)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, ids[0], second[0].Id)
	assert.Equal(t, "glider 1", second[0].Description)

	beyond, err := store.PageByEmail(ctx, "ada@example.com", 3, 5)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestStore_NoSightings(t *testing.T) {
	store := NewStore(testutil.OpenDB(t))
	ctx := context.Background()

	count, err := store.CountByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, TotalPages(count, 5))

	page, err := store.PageByEmail(ctx, "nobody@example.com", 1, 5)
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestStore_FileRoundTrip(t *testing.T) {
	db := testutil.OpenDB(t)
	store := NewStore(db)
	ctx := context.Background()

	withFile := report("ada@example.com", 1)
	withFile.File = []byte{0x89, 'P', 'N', 'G', 0x00, 0xFF}
	_, err := store.Insert(ctx, withFile)
	require.NoError(t, err)
	_, err = store.Insert(ctx, report("ada@example.com", 2))
	require.NoError(t, err)

	var nulls int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sightings WHERE file IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls)

	page, err := store.PageByEmail(ctx, "ada@example.com", 1, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Empty(t, page[0].File)
	assert.Equal(t, withFile.File, page[1].File)
	assert.Equal(t, "-33.8688", page[1].Latitude)
}

func TestParsePage(t *testing.T) {
	for raw, want := range map[string]int{"": 1, "1": 1, "3": 3, "0": 1, "-2": 1, "two": 1, "2.5": 1} {
		assert.Equal(t, want, parsePage(raw), raw)
	}
}

func TestStore_InsertKeepsMissingCoordinates(t *testing.T) {
	store := NewStore(testutil.OpenDB(t))
	sighting := report("ada@example.com", 1)
	sighting.Latitude = sql.NullString{}
	sighting.Longitude = sql.NullString{}

	id, err := store.Insert(context.Background(), sighting)
	require.NoError(t, err)

	var missing bool
	require.NoError(t, store.Connection.QueryRow(
		`SELECT latitude IS NULL AND longitude IS NULL FROM sightings WHERE id = ?`, id).Scan(&missing))
	assert.True(t, missing)
}
