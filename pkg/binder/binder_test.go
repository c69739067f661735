package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/binder"
)

type confirmRequest struct {
	ID    uuid.UUID `path:"id" json:"-"`
	Code  string    `json:"code"`
	Title *string   `json:"title,omitempty"`
	Tags  []string  `json:"tags,omitempty"`
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	bind := binder.JSON()

	t.Run("decodes and trims", func(t *testing.T) {
		t.Parallel()
		var req confirmRequest
		err := bind(jsonRequest(`{"code":" 123456 ","title":"  Folio  ","tags":[" go "]}`), &req)
		require.NoError(t, err)
		assert.Equal(t, "123456", req.Code)
		require.NotNil(t, req.Title)
		assert.Equal(t, "Folio", *req.Title)
		assert.Equal(t, []string{"go"}, req.Tags)
	})

	tests := []struct {
		name string
		req  func() *http.Request
		err  error
	}{
		{
			name: "missing content type",
			req:  func() *http.Request { return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)) },
			err:  binder.ErrMissingContentType,
		},
		{
			name: "wrong content type",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
				r.Header.Set("Content-Type", "text/plain")
				return r
			},
			err: binder.ErrUnsupportedMediaType,
		},
		{name: "empty body", req: func() *http.Request { return jsonRequest("") }, err: binder.ErrFailedToParseJSON},
		{name: "unknown field", req: func() *http.Request { return jsonRequest(`{"code":"1","admin":true}`) }, err: binder.ErrFailedToParseJSON},
		{name: "trailing data", req: func() *http.Request { return jsonRequest(`{"code":"1"}{"code":"2"}`) }, err: binder.ErrFailedToParseJSON},
		{name: "wrong type", req: func() *http.Request { return jsonRequest(`{"code":123456}`) }, err: binder.ErrFailedToParseJSON},
		{
			name: "too large",
			req:  func() *http.Request { return jsonRequest(`{"code":"` + strings.Repeat("1", binder.DefaultMaxJSONSize) + `"}`) },
			err:  binder.ErrRequestTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req confirmRequest
			assert.ErrorIs(t, bind(tt.req(), &req), tt.err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	params := map[string]string{"id": id.String()}
	extract := func(_ *http.Request, name string) string { return params[name] }

	t.Run("binds tagged fields only", func(t *testing.T) {
		t.Parallel()
		req := confirmRequest{Code: "keep"}
		require.NoError(t, binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/", nil), &req))
		assert.Equal(t, id, req.ID)
		assert.Equal(t, "keep", req.Code)
	})

	t.Run("invalid uuid", func(t *testing.T) {
		t.Parallel()
		bad := func(*http.Request, string) string { return "not-a-uuid" }
		var req confirmRequest
		assert.ErrorIs(t, binder.Path(bad)(httptest.NewRequest(http.MethodGet, "/", nil), &req), binder.ErrInvalidPath)
	})

	t.Run("integer fields", func(t *testing.T) {
		t.Parallel()
		var req struct {
			Page int `path:"page"`
		}
		get := func(*http.Request, string) string { return "3" }
		require.NoError(t, binder.Path(get)(httptest.NewRequest(http.MethodGet, "/", nil), &req))
		assert.Equal(t, 3, req.Page)
	})

	t.Run("rejects non-pointer", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/", nil), confirmRequest{}), binder.ErrInvalidTarget)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		var req confirmRequest
		assert.ErrorIs(t, binder.Path(nil)(httptest.NewRequest(http.MethodGet, "/", nil), &req), binder.ErrInvalidPath)
	})
}
