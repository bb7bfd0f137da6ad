package rest

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/silktrader/gliderwatch/pkg/session"
	"github.com/sirupsen/logrus"
)

// Config is used to provide dependencies and configuration to the New function.
type Config struct {
	Logger   logrus.FieldLogger
	Sessions *session.Codec
}

func New(cfg Config) (engine *Engine, err error) {

	// assign a logger or fail
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session codec is required")
	}

	engine = &Engine{
		baseLogger: cfg.Logger,
		sessions:   cfg.Sessions,
		router:     httprouter.New(),
	}

	// disables redirections such as `/foo/` to `/foo`
	engine.router.RedirectTrailingSlash = false

	// disables attempts to fix common path issues and redirects them, i.e. `/FoO` redirects to `/foo`
	engine.router.RedirectFixedPath = false

	return engine, nil
}

// Engine contains the muxer, logger, session codec and middleware.
type Engine struct {
	router *httprouter.Router

	// a middleware queue; invocation order follows insertion order
	middleware []func(http.Handler) http.Handler

	// baseLogger is a logger for non-requests contexts, like goroutines or background tasks not started by a request
	baseLogger logrus.FieldLogger

	sessions *session.Codec
}

// Handler returns an instance of httprouter.Router that handle routes registered here
func (e *Engine) Handler() http.Handler {
	return e.router
}

// Handle registers the path and method to the given handler. Also applies the middleware to the Handler
// Handle calls the base router, to register the method, path and handler.
func (e *Engine) Handle(method string, path string, handler http.Handler, middleware ...func(http.Handler) http.Handler) {

	// first apply the router's globally defined middleware
	for _, mw := range e.middleware {
		handler = mw(handler)
	}

	// then apply the per-route specific middleware
	for _, mw := range middleware {
		handler = mw(handler)
	}

	// associate the final composed handler to the selected path and method pair
	e.router.Handler(method, path, handler)
}

// Use specifies one or multiple new handlers that will be evaluated for every specified route (ie. logger).
func (e *Engine) Use(mw ...func(http.Handler) http.Handler) {
	e.middleware = append(e.middleware, mw...)
}

// Get defines a new GET method handler for the specified path.
// The variadic arguments are guards that will be exclusively evaluated for the path.
func (e *Engine) Get(path string, fn HandlerFunc, guards ...Guard) {
	e.Handle(http.MethodGet, path, e.wrap(guard(fn, guards)))
}

func (e *Engine) Post(path string, fn HandlerFunc, guards ...Guard) {
	e.Handle(http.MethodPost, path, e.wrap(guard(fn, guards)))
}

// ServeFiles serves files from the given file system root; the path must end with "/*filepath".
func (e *Engine) ServeFiles(path string, root http.FileSystem) {
	e.router.ServeFiles(path, root)
}

// guard wraps the handler so that the first guard is evaluated first.
func guard(fn HandlerFunc, guards []Guard) HandlerFunc {
	for i := len(guards) - 1; i >= 0; i-- {
		fn = guards[i](fn)
	}
	return fn
}
