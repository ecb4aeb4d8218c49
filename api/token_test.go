package main

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication() *application {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var cfg config
	cfg.env = "test"
	cfg.jwt.secret = "test-secret-test-secret-test-secret"
	cfg.jwt.expiration = time.Hour

	return &application{
		config:  cfg,
		logger:  logger,
		storage: newMemStorage(),
	}
}

func TestTokenRoundTrip(t *testing.T) {
	app := newTestApplication()
	userID := uuid.New()

	token, err := app.generateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := app.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestTokenExpired(t *testing.T) {
	app := newTestApplication()
	app.config.jwt.expiration = -time.Minute

	token, err := app.generateToken(uuid.New())
	require.NoError(t, err)

	_, err = app.parseToken(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	app := newTestApplication()
	token, err := app.generateToken(uuid.New())
	require.NoError(t, err)

	other := newTestApplication()
	other.config.jwt.secret = "a-completely-different-secret"
	_, err = other.parseToken(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	app := newTestApplication()
	_, err := app.parseToken("not.a.token")
	assert.Error(t, err)
}
