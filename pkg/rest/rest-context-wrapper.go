package rest

import (
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/silktrader/gliderwatch/pkg/session"
	"github.com/sirupsen/logrus"
)

// HandlerFunc is the signature for route handlers; RequestContext carries request-dependent state explicitly.
type HandlerFunc func(http.ResponseWriter, *http.Request, RequestContext)

// Guard decorates a handler, usually to short circuit requests that don't satisfy a precondition.
type Guard func(HandlerFunc) HandlerFunc

// RequestContext is the context of the request, for request-dependent parameters
type RequestContext struct {
	// ReqUUID is the request unique ID
	ReqUUID uuid.UUID

	// Logger is a custom field logger for the request
	Logger logrus.FieldLogger

	// Session is the browser's session, stored back with the response whenever it changes
	Session *session.State
}

// wrap parses the request and adds a RequestContext instance related to the request.
func (e *Engine) wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqUUID, err := uuid.NewV4()
		if err != nil {
			e.baseLogger.WithError(err).Error("can't generate a request UUID")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var ctx = RequestContext{
			ReqUUID: reqUUID,
			Session: e.sessions.Load(r),
		}

		// Create a request-specific logger
		ctx.Logger = e.baseLogger.WithFields(logrus.Fields{
			"reqid":     ctx.ReqUUID.String(),
			"remote-ip": r.RemoteAddr,
		})

		var sw = &sessionWriter{ResponseWriter: w, ctx: ctx, codec: e.sessions}

		// Call the next handler in chain (usually, the handler function for the path)
		fn(sw, r, ctx)

		// handlers that write nothing still get their session changes stored
		sw.commit()
	})
}

// sessionWriter stores the session cookie right before the response headers are sent.
type sessionWriter struct {
	http.ResponseWriter
	ctx       RequestContext
	codec     *session.Codec
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if !w.ctx.Session.Changed() {
		return
	}
	if err := w.codec.Save(w.ResponseWriter, w.ctx.Session); err != nil {
		w.ctx.Logger.WithError(err).Error("can't store the session")
	}
}

func (w *sessionWriter) WriteHeader(status int) {
	w.commit()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}
