package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/blogz/internal/apperrors"
	"github.com/nkiryanov/blogz/internal/handlers/render"
	"github.com/nkiryanov/blogz/internal/metrics"
)

const afterLoginPath = "/newpost"

type credentialsForm struct {
	Username string
}

// Message and whether username stays in the form, in the order rules are checked
var signupRejections = []struct {
	err          error
	message      string
	keepUsername bool
}{
	{apperrors.ErrInvalidText, "Usernames and passwords can only contain printable text.", false},
	{apperrors.ErrCredentialsWhitespace, "You can not have spaces in a username or password.", false},
	{apperrors.ErrUserAlreadyExists, "That username is taken.", false},
	{apperrors.ErrUsernameTooShort, "Usernames must have three or more characters.", false},
	{apperrors.ErrUsernameTooLong, "Usernames must have 32 or fewer characters.", false},
	{apperrors.ErrPasswordTooShort, "Passwords must have three or more characters.", true},
	{apperrors.ErrPasswordMismatch, "Passwords must match.", true},
}

func handleSignup(auth authService, p *pages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			p.render(w, r, http.StatusOK, render.PageSignup, "Sign up", credentialsForm{})
			return
		}

		username := r.PostFormValue("username")
		user, err := auth.Signup(r.Context(), username, r.PostFormValue("password"), r.PostFormValue("verify"))
		if err != nil {
			for _, rejection := range signupRejections {
				if !errors.Is(err, rejection.err) {
					continue
				}

				metrics.SignupsTotal.WithLabelValues(metrics.ResultRejected).Inc()
				form := credentialsForm{}
				if rejection.keepUsername {
					form.Username = username
				}
				stateOf(r).Flash(rejection.message)
				p.render(w, r, http.StatusOK, render.PageSignup, "Sign up", form)
				return
			}

			metrics.SignupsTotal.WithLabelValues(metrics.ResultError).Inc()
			p.serverError(w, r, err)
			return
		}

		metrics.SignupsTotal.WithLabelValues(metrics.ResultOK).Inc()
		st := stateOf(r)
		st.Establish(user.Username)
		st.Flash("Welcome, " + user.Username + "!")
		http.Redirect(w, r, afterLoginPath, http.StatusFound)
	})
}

func handleLogin(auth authService, p *pages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			p.render(w, r, http.StatusOK, render.PageLogin, "Log in", credentialsForm{})
			return
		}

		username := r.PostFormValue("username")
		user, err := auth.Login(r.Context(), username, r.PostFormValue("password"))
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			stateOf(r).Flash("That user does not exist.")
			p.render(w, r, http.StatusOK, render.PageLogin, "Log in", credentialsForm{})
			return
		case errors.Is(err, apperrors.ErrIncorrectPassword):
			metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			stateOf(r).Flash("That password is incorrect.")
			p.render(w, r, http.StatusOK, render.PageLogin, "Log in", credentialsForm{Username: username})
			return
		case err != nil:
			metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
			p.serverError(w, r, err)
			return
		}

		metrics.LoginsTotal.WithLabelValues(metrics.ResultOK).Inc()
		st := stateOf(r)
		st.Establish(user.Username)
		st.Flash("Welcome back, " + user.Username + "!")
		http.Redirect(w, r, afterLoginPath, http.StatusFound)
	})
}

func handleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stateOf(r).End()
		http.Redirect(w, r, "/blog", http.StatusFound)
	})
}
