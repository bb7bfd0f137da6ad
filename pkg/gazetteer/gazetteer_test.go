package gazetteer

import (
	"context"
	"database/sql"
	"testing"

	"github.com/silktrader/gliderwatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedGazetteer(t, db,
		testutil.Place{Name: "Sydney", Postcode: "2000", Latitude: "-33.8688", Longitude: "151.2093"},
		testutil.Place{Name: "Dawes Point", Postcode: "2000", Latitude: "-33.8558", Longitude: "151.2073"},
		testutil.Place{Name: "Canberra", Postcode: "2600", Latitude: "-35.2809", Longitude: "149.13"},
	)
	gazetteer := New(db)
	ctx := context.Background()

	coordinates, err := gazetteer.Resolve(ctx, "sYdNeY", "2000")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{
		Latitude:  sql.NullString{String: "-33.8688", Valid: true},
		Longitude: sql.NullString{String: "151.2093", Valid: true},
	}, coordinates)

	coordinates, err = gazetteer.Resolve(ctx, "Dawes Point", "2000")
	require.NoError(t, err)
	assert.Equal(t, "-33.8558", coordinates.Latitude.String)

	for _, miss := range [][2]string{
		{"Sydney", "2600"},
		{"Sydney", " 2000"},
		{"Syd", "2000"},
		{"Sydney CBD", "2000"},
		{"", ""},
	} {
		_, err = gazetteer.Resolve(ctx, miss[0], miss[1])
		assert.ErrorIs(t, err, ErrNoMatch, miss)
	}
}

func TestResolve_MissingTable(t *testing.T) {
	_, err := New(testutil.OpenDB(t)).Resolve(context.Background(), "Sydney", "2000")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestResolve_PlaceWithoutCoordinates(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedGazetteer(t, db)
	_, err := db.Exec(`INSERT INTO au_postcodes (postcode, place_name, latitude, longitude) VALUES ('0872', 'Kintore', NULL, NULL)`)
	require.NoError(t, err)

	coordinates, err := New(db).Resolve(context.Background(), "kintore", "0872")
	require.NoError(t, err)
	assert.False(t, coordinates.Latitude.Valid)
	assert.False(t, coordinates.Longitude.Valid)
}
