package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/blogz/internal/models"
)

func TestRender_HTML(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	t.Run("layout with flashes and user", func(t *testing.T) {
		rec := httptest.NewRecorder()

		err := r.HTML(rec, http.StatusOK, PageLogin, Page{
			Title:    "Log in",
			Username: "alice",
			Flashes:  []string{"That password is incorrect."},
			Data:     struct{ Username string }{Username: "alice"},
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.Contains(t, body, "<title>Log in | Blogz</title>")
		assert.Contains(t, body, "Logged in as alice")
		assert.Contains(t, body, "<li>That password is incorrect.</li>")
		assert.Contains(t, body, `value="alice"`)
	})

	t.Run("escapes user content", func(t *testing.T) {
		rec := httptest.NewRecorder()
		post := models.Post{
			ID:            uuid.New(),
			Title:         "<script>alert(1)</script>",
			Body:          "body",
			PostedAt:      time.Now(),
			OwnerUsername: "alice",
		}

		err := r.HTML(rec, http.StatusOK, PageSinglePost, Page{Data: struct{ Post models.Post }{Post: post}})

		require.NoError(t, err)
		assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
		assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
	})

	t.Run("status code kept", func(t *testing.T) {
		rec := httptest.NewRecorder()

		err := r.HTML(rec, http.StatusNotFound, PageNotFound, Page{Data: struct{ Message string }{Message: "Post not found"}})

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Post not found")
	})

	t.Run("unknown page", func(t *testing.T) {
		rec := httptest.NewRecorder()

		err := r.HTML(rec, http.StatusOK, "nope", Page{})

		require.Error(t, err)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("template error writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()

		// index expects Users field
		err := r.HTML(rec, http.StatusOK, PageIndex, Page{Data: struct{ Other int }{}})

		require.Error(t, err)
		assert.Empty(t, rec.Body.String())
	})
}

func TestRender_Static(t *testing.T) {
	srv := httptest.NewServer(Static())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/static/style.css")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.Contains(t, string(body), "font-family")
}
