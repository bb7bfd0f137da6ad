package sightings

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/silktrader/gliderwatch/pkg/gazetteer"
	JSON "github.com/silktrader/gliderwatch/pkg/json-utilities"
	"github.com/silktrader/gliderwatch/pkg/pages"
	"github.com/silktrader/gliderwatch/pkg/rest"
)

const Listing = "sightings"

// Materializer turns stored media into files reachable by browsers.
type Materializer interface {
	Materialize(ctx context.Context, id int64, content []byte) (string, error)
}

type Options struct {
	PageSize       int
	MaxUploadBytes int64
}

func RegisterHandlers(engine *rest.Engine, store Storer, places gazetteer.Resolver, media Materializer, options Options) {
	engine.Post("/report_sighting", reportSighting(store, places, options.MaxUploadBytes),
		rest.RequireIdentity("Please login to report a sighting.", "/login"))
	engine.Get("/sightings", listSightings(store, media, options.PageSize),
		rest.RequireIdentity("Please login to view your sightings.", "/login"))
}

// reportSighting stores a report once its location and postcode are found in the gazetteer.
// The reporter's email is taken from the form, not from the session.
func reportSighting(store Storer, places gazetteer.Resolver, maxUploadBytes int64) rest.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request, ctx rest.RequestContext) {
		request.Body = http.MaxBytesReader(writer, request.Body, maxUploadBytes)
		if err := request.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			JSON.BadRequestWithMessage(writer, "The report couldn't be read: "+err.Error())
			return
		}

		var data = ReportData{
			FirstName:   request.PostFormValue("fname"),
			LastName:    request.PostFormValue("lname"),
			Email:       request.PostFormValue("email"),
			Description: request.PostFormValue("description"),
			Date:        request.PostFormValue("date"),
			Time:        request.PostFormValue("time"),
			Address:     request.PostFormValue("address"),
			Postcode:    strings.TrimSpace(request.PostFormValue("postcode")),
			Location:    strings.TrimSpace(request.PostFormValue("location")),
			Country:     request.PostFormValue("country"),
		}

		file, err := readUpload(request)
		if err != nil {
			JSON.BadRequestWithMessage(writer, "The attached file couldn't be read: "+err.Error())
			return
		}
		data.File = file

		if err = data.Validate(); err != nil {
			ctx.Session.Flash("Please complete the report: " + err.Error())
			rest.Redirect(writer, request, "/report")
			return
		}

		coordinates, err := places.Resolve(request.Context(), data.Location, data.Postcode)
		if errors.Is(err, gazetteer.ErrNoMatch) {
			ctx.Session.Flash("Invalid postcode or location. Please double-check your input.")
			rest.Redirect(writer, request, "/report")
			return
		}
		if err != nil {
			ctx.Logger.WithError(err).Error("can't resolve sighting location")
			JSON.InternalServerError(writer)
			return
		}

		id, err := store.Insert(request.Context(), NewSighting{
			ReportData: data,
			Latitude:   coordinates.Latitude,
			Longitude:  coordinates.Longitude,
		})
		if err != nil {
			ctx.Logger.WithError(err).Error("can't store sighting")
			JSON.InternalServerError(writer)
			return
		}

		ctx.Logger.WithField("sighting", id).Debug("sighting reported")
		ctx.Session.Flash("Sighting reported successfully!")
		rest.Redirect(writer, request, "/")
	}
}

// readUpload returns the content of the optional "file" field.
func readUpload(request *http.Request) ([]byte, error) {
	file, _, err := request.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// listSightings shows a page of the sightings whose reporter email matches the logged in user's.
func listSightings(store Storer, media Materializer, pageSize int) rest.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request, ctx rest.RequestContext) {
		identity, _ := ctx.Session.Identity()
		var page = parsePage(request.URL.Query().Get("page"))

		count, err := store.CountByEmail(request.Context(), identity.Email)
		if err != nil {
			ctx.Logger.WithError(err).Error("can't count sightings")
			JSON.InternalServerError(writer)
			return
		}

		sightings, err := store.PageByEmail(request.Context(), identity.Email, page, pageSize)
		if err != nil {
			ctx.Logger.WithError(err).Error("can't fetch sightings")
			JSON.InternalServerError(writer)
			return
		}

		var data = ListingData{
			Sightings:  make([]SightingView, 0, len(sightings)),
			Page:       page,
			TotalPages: TotalPages(count, pageSize),
		}
		for _, sighting := range sightings {
			var view = newSightingView(sighting)
			if len(sighting.File) > 0 {
				// a failed materialization only costs the picture, not the whole listing
				if path, err := media.Materialize(request.Context(), sighting.Id, sighting.File); err != nil {
					ctx.Logger.WithError(err).WithField("sighting", sighting.Id).Warning("can't materialize media")
				} else {
					view.FilePath = &path
				}
			}
			data.Sightings = append(data.Sightings, view)
		}

		pages.Render(writer, ctx, Listing, data)
	}
}

// parsePage reads a 1-based page number, falling back on the first page for anything unusable.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func newSightingView(s Sighting) SightingView {
	return SightingView{
		Id:          s.Id,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		Description: s.Description,
		Date:        s.Date,
		Time:        s.Time,
		Address:     s.Address,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Postcode:    s.Postcode,
		Location:    s.Location,
		Country:     s.Country,
	}
}
