// Package gazetteer resolves place names and postcodes into coordinates, reading the au_postcodes reference table.
// The table is populated by external tooling; the application neither creates nor modifies it.
package gazetteer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNoMatch = errors.New("no place matches the location and postcode")

// Coordinates are kept as text, the way they're stored alongside sightings. Gazetteer rows may lack either value.
type Coordinates struct {
	Latitude  sql.NullString
	Longitude sql.NullString
}

type Resolver interface {
	Resolve(ctx context.Context, location, postcode string) (Coordinates, error)
}

type Gazetteer struct {
	Connection *sql.DB
}

func New(connection *sql.DB) *Gazetteer {
	return &Gazetteer{connection}
}

// Resolve matches the place name regardless of case and the postcode exactly. When several places qualify, which
// one is returned is left to the database.
func (g *Gazetteer) Resolve(ctx context.Context, location, postcode string) (coordinates Coordinates, err error) {
	err = g.Connection.QueryRowContext(ctx,
		`SELECT latitude, longitude FROM au_postcodes WHERE LOWER(place_name) = LOWER(?) AND postcode = ? LIMIT 1`,
		location, postcode,
	).Scan(&coordinates.Latitude, &coordinates.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return Coordinates{}, ErrNoMatch
	}
	if err != nil {
		return Coordinates{}, fmt.Errorf("resolving %q %q: %w", location, postcode, err)
	}
	return coordinates, nil
}
