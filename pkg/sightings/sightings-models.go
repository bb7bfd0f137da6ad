package sightings

import (
	"database/sql"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Sighting is a stored report. Ownership is established by the reporter's email, as typed in the form.
type Sighting struct {
	Id          int64
	FirstName   string
	LastName    string
	Email       string
	Description string
	Date        string
	Time        string
	Address     string
	Latitude    string
	Longitude   string
	Postcode    string
	Country     string
	Location    string
	File        []byte
}

type ReportData struct {
	FirstName   string
	LastName    string
	Email       string
	Description string
	Date        string
	Time        string
	Address     string
	Postcode    string
	Location    string
	Country     string
	File        []byte
}

func (data *ReportData) Validate() error {
	return validation.ValidateStruct(data,
		validation.Field(&data.FirstName, validation.Required),
		validation.Field(&data.Email, validation.Required),
		validation.Field(&data.Postcode, validation.Required),
		validation.Field(&data.Location, validation.Required),
	)
}

// NewSighting is a report whose location has been resolved into coordinates.
type NewSighting struct {
	ReportData
	Latitude  sql.NullString
	Longitude sql.NullString
}

// Listing Response DTOs

type SightingView struct {
	Id          int64   `json:"id"`
	FirstName   string  `json:"fname"`
	LastName    string  `json:"lname"`
	Email       string  `json:"email"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Address     string  `json:"address"`
	Latitude    string  `json:"latitude"`
	Longitude   string  `json:"longitude"`
	Postcode    string  `json:"postcode"`
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	FilePath    *string `json:"file_path"`
}

type ListingData struct {
	Sightings  []SightingView `json:"sightings"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// TotalPages is the number of pages needed to show count items, pageSize at a time; no items need no pages.
func TotalPages(count, pageSize int) int {
	return (count + pageSize - 1) / pageSize
}
