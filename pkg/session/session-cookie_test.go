package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, secret string, maxAge time.Duration) *Codec {
	t.Helper()
	codec, err := NewCodec(Config{Secret: []byte(secret), CookieName: "session", MaxAge: maxAge})
	require.NoError(t, err)
	return codec
}

// roundTrip saves the state and loads it back from a request carrying the resulting cookie.
func roundTrip(t *testing.T, saver, loader *Codec, state *State) (*State, *http.Cookie) {
	t.Helper()
	recorder := httptest.NewRecorder()
	require.NoError(t, saver.Save(recorder, state))
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(cookies[0])
	return loader.Load(request), cookies[0]
}

var ada = Identity{Username: "ada", Email: "ada@example.com", Firstname: "Ada", Lastname: "Lovelace"}

func TestCodec_IdentitySurvivesRequests(t *testing.T) {
	codec := newCodec(t, "secret", time.Hour)
	state := &State{}
	state.Start(ada)
	state.Flash("Login successful!")

	loaded, cookie := roundTrip(t, codec, codec, state)
	assert.True(t, cookie.HttpOnly)

	identity, ok := loaded.Identity()
	require.True(t, ok)
	assert.Equal(t, ada, identity)
	assert.Equal(t, []string{"Login successful!"}, loaded.PopFlashes())
	assert.True(t, loaded.Changed())
	assert.Empty(t, loaded.PopFlashes())
}

func TestCodec_ForgedCookieIsIgnored(t *testing.T) {
	state := &State{}
	state.Start(ada)

	loaded, _ := roundTrip(t, newCodec(t, "attacker", time.Hour), newCodec(t, "secret", time.Hour), state)
	assert.False(t, loaded.Authenticated())
	assert.False(t, loaded.Changed())
}

func TestCodec_ExpiredCookieIsIgnored(t *testing.T) {
	codec := newCodec(t, "secret", time.Nanosecond)
	state := &State{}
	state.Start(ada)

	recorder := httptest.NewRecorder()
	require.NoError(t, codec.Save(recorder, state))
	time.Sleep(1100 * time.Millisecond)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(recorder.Result().Cookies()[0])
	assert.False(t, codec.Load(request).Authenticated())
}

func TestState_EndKeepsFlashes(t *testing.T) {
	codec := newCodec(t, "secret", time.Hour)
	state := &State{}
	state.Start(ada)
	state.End()
	state.Flash("You have been logged out.")

	loaded, _ := roundTrip(t, codec, codec, state)
	assert.False(t, loaded.Authenticated())
	assert.Equal(t, []string{"You have been logged out."}, loaded.PopFlashes())
}

func TestCodec_EmptyStateExpiresCookie(t *testing.T) {
	codec := newCodec(t, "secret", time.Hour)
	recorder := httptest.NewRecorder()
	require.NoError(t, codec.Save(recorder, &State{}))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestNewCodec_Validation(t *testing.T) {
	_, err := NewCodec(Config{CookieName: "session", MaxAge: time.Hour})
	assert.Error(t, err)
	_, err = NewCodec(Config{Secret: []byte("x"), MaxAge: time.Hour})
	assert.Error(t, err)
	_, err = NewCodec(Config{Secret: []byte("x"), CookieName: "session"})
	assert.Error(t, err)
}
