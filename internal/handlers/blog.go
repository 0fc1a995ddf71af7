package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/blogz/internal/apperrors"
	"github.com/nkiryanov/blogz/internal/handlers/middleware"
	"github.com/nkiryanov/blogz/internal/handlers/render"
	"github.com/nkiryanov/blogz/internal/metrics"
	"github.com/nkiryanov/blogz/internal/models"
)

type usersPage struct {
	Users []models.User
}

type postsPage struct {
	// Set on per user page only
	Owner *models.User
	Posts []models.Post
}

type postPage struct {
	Post models.Post
}

type postForm struct {
	Title string
	Body  string
}

func handleIndex(blog blogService, p *pages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := blog.ListUsers(r.Context())
		if err != nil {
			p.serverError(w, r, err)
			return
		}

		p.render(w, r, http.StatusOK, render.PageIndex, "Blog Users", usersPage{Users: users})
	})
}

// Serves single post (?id=), posts of one user (?user=) or all posts.
// Malformed ids are reported as not found.
func handleListBlogs(blog blogService, p *pages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if rawID := query.Get("id"); rawID != "" {
			id, err := uuid.Parse(rawID)
			if err != nil {
				p.notFound(w, r, "Post not found")
				return
			}

			post, err := blog.GetPost(r.Context(), id)
			switch {
			case errors.Is(err, apperrors.ErrPostNotFound):
				p.notFound(w, r, "Post not found")
			case err != nil:
				p.serverError(w, r, err)
			default:
				p.render(w, r, http.StatusOK, render.PageSinglePost, post.Title, postPage{Post: post})
			}
			return
		}

		if rawUserID := query.Get("user"); rawUserID != "" {
			userID, err := uuid.Parse(rawUserID)
			if err != nil {
				p.notFound(w, r, "User not found")
				return
			}

			owner, posts, err := blog.ListPostsByUser(r.Context(), userID)
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				p.notFound(w, r, "User not found")
			case err != nil:
				p.serverError(w, r, err)
			default:
				p.render(w, r, http.StatusOK, render.PageBlog, owner.Username, postsPage{Owner: &owner, Posts: posts})
			}
			return
		}

		posts, err := blog.ListPosts(r.Context())
		if err != nil {
			p.serverError(w, r, err)
			return
		}

		p.render(w, r, http.StatusOK, render.PageBlog, "All Posts", postsPage{Posts: posts})
	})
}

func handleNewPost(blog blogService, p *pages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			p.render(w, r, http.StatusOK, render.PageAddPost, "Add a Blog Entry", postForm{})
			return
		}

		st := stateOf(r)
		username, ok := st.CurrentUsername()
		if !ok {
			http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
			return
		}

		form := postForm{Title: r.PostFormValue("title"), Body: r.PostFormValue("body")}
		post, err := blog.CreatePost(r.Context(), username, form.Title, form.Body)
		switch {
		case errors.Is(err, apperrors.ErrPostIncomplete):
			st.Flash("Posts require both a title and a body...try again!")
			p.render(w, r, http.StatusOK, render.PageAddPost, "Add a Blog Entry", form)
			return
		case errors.Is(err, apperrors.ErrInvalidText):
			st.Flash("Posts can only contain printable text.")
			p.render(w, r, http.StatusOK, render.PageAddPost, "Add a Blog Entry", form)
			return
		case errors.Is(err, apperrors.ErrUserNotFound):
			// Session outlived its user
			st.End()
			http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
			return
		case err != nil:
			p.serverError(w, r, err)
			return
		}

		metrics.PostsCreatedTotal.Inc()
		http.Redirect(w, r, "/blog?id="+post.ID.String(), http.StatusFound)
	})
}
