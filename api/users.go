package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (app *application) generateToken(userID uuid.UUID) (string, error) {
	claims := userClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(app.config.jwt.expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(app.config.jwt.secret))
}

type userWithToken struct {
	user
	Token string `json:"token"`
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkEmail(input.Email)
	v.checkUsername(input.Username)
	v.checkPassword(input.Password)
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		app.writeServerError(w, err)
		return
	}
	u, err := app.storage.insertUser(r.Context(), input.Email, input.Username, hash)
	if err != nil {
		if errors.Is(err, errDuplicateEmail) {
			app.writeError(w, errors.New("a user with this email address already exists"), http.StatusConflict)
			return
		}
		app.writeServerError(w, err)
		return
	}
	token, err := app.generateToken(u.ID)
	if err != nil {
		app.writeServerError(w, err)
		return
	}

	if app.mailer != nil {
		go func() {
			if err := app.mailer.sendWelcome(u); err != nil {
				app.logger.WithError(err).Error("sending welcome email")
			}
		}()
	}

	app.writeJSON(w, http.StatusCreated, userWithToken{user: *u, Token: token})
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(r, &input); err != nil {
		app.writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkEmail(input.Email)
	v.checkCond(input.Password != "", "password", "must be provided")
	if v.hasErrors() {
		app.writeFailedValidation(w, v)
		return
	}

	// a missing user and a wrong password must be indistinguishable
	u, err := app.storage.getUserByEmail(r.Context(), input.Email)
	if err != nil {
		if errors.Is(err, errNotFound) {
			app.writeError(w, errors.New("wrong email or password"), http.StatusUnauthorized)
			return
		}
		app.writeServerError(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(input.Password)); err != nil {
		app.writeError(w, errors.New("wrong email or password"), http.StatusUnauthorized)
		return
	}
	token, err := app.generateToken(u.ID)
	if err != nil {
		app.writeServerError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, userWithToken{user: *u, Token: token})
}

func (app *application) getUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	app.writeJSON(w, http.StatusOK, u)
}
