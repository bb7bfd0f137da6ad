// Package pages renders view models for the site's pages and serves those without any logic of their own.
// Markup is produced elsewhere: each view is a JSON document holding the page's name, the pending notices, the
// logged in user and any page specific data.
package pages

import (
	"net/http"

	JSON "github.com/silktrader/gliderwatch/pkg/json-utilities"
	"github.com/silktrader/gliderwatch/pkg/rest"
	"github.com/silktrader/gliderwatch/pkg/session"
)

const (
	Home    = "index"
	Team    = "team"
	About   = "about"
	Contact = "contact"
	Report  = "report"
	Signup  = "signup"
	Login   = "login"
)

// View is the document every page renders.
type View struct {
	Page    string            `json:"page"`
	Flashes []string          `json:"flashes"`
	User    *session.Identity `json:"user"`
	Data    interface{}       `json:"data,omitempty"`
}

// Render responds with the page's view, consuming the session's pending notices.
func Render(writer http.ResponseWriter, ctx rest.RequestContext, page string, data interface{}) {
	var view = View{
		Page:    page,
		Flashes: ctx.Session.PopFlashes(),
		Data:    data,
	}
	if view.Flashes == nil {
		view.Flashes = []string{}
	}
	if identity, ok := ctx.Session.Identity(); ok {
		view.User = &identity
	}
	JSON.Ok(writer, view)
}

func RegisterHandlers(engine *rest.Engine) {
	engine.Get("/", static(Home))
	engine.Get("/team", static(Team))
	engine.Get("/about", static(About))
	engine.Get("/contact", static(Contact))
	engine.Post("/submit_contact", submitContact)

	// the report form; submissions go to "/report_sighting"
	engine.Get("/report", static(Report))
	engine.Post("/report", static(Report))
}

func static(page string) rest.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request, ctx rest.RequestContext) {
		Render(writer, ctx, page, nil)
	}
}

// submitContact acknowledges contact requests without storing them.
func submitContact(writer http.ResponseWriter, request *http.Request, ctx rest.RequestContext) {
	ctx.Session.Flash("Thank you for contacting us! We will get back to you soon.")
	rest.Redirect(writer, request, "/contact")
}
