package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/silktrader/gliderwatch/pkg/pages"
	"github.com/silktrader/gliderwatch/pkg/rest"
	"github.com/silktrader/gliderwatch/pkg/session"
	"github.com/sirupsen/logrus/hooks/test"
)

// NewEngine returns an engine with a throwaway session secret and a null logger.
func NewEngine(t *testing.T) *rest.Engine {
	t.Helper()
	codec, err := session.NewCodec(session.Config{Secret: []byte("test-secret"), CookieName: "session", MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("session codec: %v", err)
	}
	logger, _ := test.NewNullLogger()
	engine, err := rest.New(rest.Config{Logger: logger, Sessions: codec})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

// Browser sends requests to a handler, keeping cookies between them. Redirects aren't followed.
type Browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func NewBrowser(t *testing.T, handler http.Handler) *Browser {
	return &Browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}
}

func (b *Browser) Do(request *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, cookie := range b.cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	b.handler.ServeHTTP(recorder, request)
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
		} else {
			b.cookies[cookie.Name] = cookie
		}
	}
	return recorder
}

func (b *Browser) Get(path string) *httptest.ResponseRecorder {
	return b.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *Browser) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.Do(request)
}

// PostMultipart submits the form fields along with an optional "file" upload.
func (b *Browser) PostMultipart(path string, form url.Values, file []byte) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, values := range form {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				b.t.Fatalf("write field: %v", err)
			}
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", "glider.bin")
		if err != nil {
			b.t.Fatalf("create file part: %v", err)
		}
		if _, err = io.Copy(part, bytes.NewReader(file)); err != nil {
			b.t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		b.t.Fatalf("close multipart: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, path, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return b.Do(request)
}

// View fetches a page and decodes its view; data, when given, receives the page specific payload.
func (b *Browser) View(path string, data interface{}) pages.View {
	b.t.Helper()
	recorder := b.Get(path)
	if recorder.Code != http.StatusOK {
		b.t.Fatalf("GET %s: status %d", path, recorder.Code)
	}
	var view struct {
		pages.View
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &view); err != nil {
		b.t.Fatalf("decode view: %v", err)
	}
	if data != nil {
		if err := json.Unmarshal(view.Data, data); err != nil {
			b.t.Fatalf("decode view data: %v", err)
		}
	}
	return view.View
}
