package users

import (
	"errors"
	"net/http"

	JSON "github.com/silktrader/gliderwatch/pkg/json-utilities"
	"github.com/silktrader/gliderwatch/pkg/pages"
	"github.com/silktrader/gliderwatch/pkg/rest"
	"github.com/silktrader/gliderwatch/pkg/session"
)

func RegisterHandlers(engine *rest.Engine, ur UserRepository) {
	engine.Get("/signup", signupPage)
	engine.Post("/signup", signup(ur))
	engine.Get("/login", loginPage)
	engine.Post("/login", login(ur))
	engine.Get("/logout", logout)
}

func signupPage(writer http.ResponseWriter, _ *http.Request, ctx rest.RequestContext) {
	pages.Render(writer, ctx, pages.Signup, nil)
}

func loginPage(writer http.ResponseWriter, _ *http.Request, ctx rest.RequestContext) {
	pages.Render(writer, ctx, pages.Login, nil)
}

// signup creates an account but doesn't log the user in.
func signup(ur UserRepository) rest.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request, ctx rest.RequestContext) {
		var data = SignupData{
			Firstname:       request.PostFormValue("firstname"),
			Lastname:        request.PostFormValue("lastname"),
			Username:        request.PostFormValue("username"),
			Email:           request.PostFormValue("email"),
			Password:        request.PostFormValue("password"),
			ConfirmPassword: request.PostFormValue("confirm_password"),
		}

		if err := data.Validate(); err != nil {
			if errors.Is(err, ErrPasswordMismatch) {
				ctx.Session.Flash("Passwords do not match!")
			} else {
				ctx.Session.Flash("Please fill in every field: " + err.Error())
			}
			rest.Redirect(writer, request, "/signup")
			return
		}

		_, err := ur.Register(request.Context(), data)
		switch {
		case errors.Is(err, ErrDuplicate):
			ctx.Session.Flash("Username, email, or password already exists!")
			rest.Redirect(writer, request, "/signup")
		case err != nil:
			ctx.Logger.WithError(err).Error("can't register user")
			JSON.InternalServerError(writer)
		default:
			ctx.Session.Flash("Signup successful! Please log in.")
			rest.Redirect(writer, request, "/login")
		}
	}
}

func login(ur UserRepository) rest.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request, ctx rest.RequestContext) {
		var data = LoginData{
			Username: request.PostFormValue("username"),
			Password: request.PostFormValue("password"),
		}

		if err := data.Validate(); err != nil {
			ctx.Session.Flash("Invalid username or password!")
			rest.Redirect(writer, request, "/login")
			return
		}

		user, err := ur.FindByCredentials(request.Context(), data.Username, data.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			ctx.Session.Flash("Invalid username or password!")
			rest.Redirect(writer, request, "/login")
			return
		}
		if err != nil {
			ctx.Logger.WithError(err).Error("can't verify credentials")
			JSON.InternalServerError(writer)
			return
		}

		ctx.Session.Start(session.Identity{
			Username:  user.Username,
			Email:     user.Email,
			Firstname: user.Firstname,
			Lastname:  user.Lastname,
		})
		ctx.Session.Flash("Login successful!")
		rest.Redirect(writer, request, "/")
	}
}

func logout(writer http.ResponseWriter, request *http.Request, ctx rest.RequestContext) {
	ctx.Session.End()
	ctx.Session.Flash("You have been logged out.")
	rest.Redirect(writer, request, "/")
}
