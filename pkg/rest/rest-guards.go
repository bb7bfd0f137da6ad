package rest

import "net/http"

// Redirect sends the client elsewhere, as a browser would expect after a form submission.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// RequireIdentity lets through only requests from logged in browsers; the others are redirected to the fallback path
// with the given notice.
func RequireIdentity(notice, fallback string) Guard {
	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request, ctx RequestContext) {
			if !ctx.Session.Authenticated() {
				ctx.Session.Flash(notice)
				Redirect(w, r, fallback)
				return
			}
			next(w, r, ctx)
		}
	}
}
