package sightings

import (
	"context"
	"database/sql"
	"fmt"
)

type Storer interface {
	Insert(ctx context.Context, sighting NewSighting) (int64, error)
	CountByEmail(ctx context.Context, email string) (int, error)
	PageByEmail(ctx context.Context, email string, page, pageSize int) ([]Sighting, error)
}

type Store struct {
	Connection *sql.DB
}

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

// nullBlob stores missing uploads as NULL rather than empty blobs.
func nullBlob(content []byte) interface{} {
	if len(content) == 0 {
		return nil
	}
	return content
}

func (s *Store) Insert(ctx context.Context, sighting NewSighting) (int64, error) {
	result, err := s.Connection.ExecContext(ctx, `
		INSERT INTO sightings
		(fname, lname, email, description, date, time, address, latitude, longitude, postcode, location, country, file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sighting.FirstName, sighting.LastName, sighting.Email, sighting.Description, sighting.Date, sighting.Time,
		sighting.Address, sighting.Latitude, sighting.Longitude, sighting.Postcode, sighting.Location,
		sighting.Country, nullBlob(sighting.File),
	)
	if err != nil {
		return 0, fmt.Errorf("couldn't add sighting by %q: %w", sighting.Email, err)
	}
	return result.LastInsertId()
}

func (s *Store) CountByEmail(ctx context.Context, email string) (count int, err error) {
	err = s.Connection.QueryRowContext(ctx, `SELECT count(*) FROM sightings WHERE email = ?`, email).Scan(&count)
	return count, err
}

// PageByEmail returns the 1-based page of the reporter's sightings, newest first.
// Counting and paging are separate statements: a sighting added in between may skew the page count by one.
func (s *Store) PageByEmail(ctx context.Context, email string, page, pageSize int) ([]Sighting, error) {
	var sightings = make([]Sighting, 0, pageSize)

	rows, err := s.Connection.QueryContext(ctx, `
		SELECT id, fname, lname, email, description, date, time, address, latitude, longitude,
		       postcode, country, location, file
		FROM sightings
		WHERE email = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		email, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	for rows.Next() {
		var sighting Sighting
		// optional columns may hold NULLs
		var lastName, description, date, time, address, latitude, longitude, postcode, country, location sql.NullString
		if err = rows.Scan(&sighting.Id, &sighting.FirstName, &lastName, &sighting.Email, &description, &date, &time,
			&address, &latitude, &longitude, &postcode, &country, &location, &sighting.File); err != nil {
			return sightings, err
		}
		sighting.LastName = lastName.String
		sighting.Description = description.String
		sighting.Date = date.String
		sighting.Time = time.String
		sighting.Address = address.String
		sighting.Latitude = latitude.String
		sighting.Longitude = longitude.String
		sighting.Postcode = postcode.String
		sighting.Country = country.String
		sighting.Location = location.String
		sightings = append(sightings, sighting)
	}

	return sightings, rows.Err()
}
