package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestCORS_AnyOriginWithoutCredentials(t *testing.T) {
	handler := applyCORSHandler(http.HandlerFunc(noContent))

	request := httptest.NewRequest(http.MethodGet, "/sightings", nil)
	request.Header.Set("Origin", "https://gliders.example.org")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAccessLog(t *testing.T) {
	var out bytes.Buffer
	handler := accessLog(&out)(http.HandlerFunc(noContent))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Contains(t, out.String(), `"GET /about HTTP/1.1" 204`)
}
