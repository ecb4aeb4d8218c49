package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

type config struct {
	port int
	env  string
	db   struct {
		dsn                string
		maxOpenConnections int
		maxIdleConnections int
		maxIdleTime        time.Duration
	}
	jwt struct {
		secret     string
		expiration time.Duration
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	limiter struct {
		enabled             bool
		maxRequestPerSecond float64
		burst               int
	}
	cors struct {
		trustedOrigins []string
	}
}

type application struct {
	config  config
	logger  *logrus.Logger
	storage storage
	mailer  *mailer
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// databaseDSN prefers the full connection URL and otherwise assembles a DSN
// from the individual DATABASE_* variables.
func databaseDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		envString("DATABASE_HOST", "localhost"),
		envInt("DATABASE_PORT", 5432),
		envString("DATABASE_USER", "postgres"),
		envString("DATABASE_PASSWORD", "postgres"),
		envString("DATABASE_NAME", "todoapp"),
		envString("DATABASE_SSL_MODE", "disable"))
}

func main() {
	if envString("ENV", "development") != "production" {
		// optional for local development, env vars win in containers
		godotenv.Load()
	}

	var cfg config
	flag.IntVar(&cfg.port, "port", envInt("PORT", 8000), "Server port")
	flag.StringVar(&cfg.env, "env", envString("ENV", "development"), "Environment [development|production]")

	flag.StringVar(&cfg.db.dsn, "db-dsn", databaseDSN(), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConnections, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConnections, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	var maxIdleTime string
	flag.StringVar(&maxIdleTime, "db-max-idle-time", "15m", "PostgreSQL max connection idle time")

	flag.StringVar(&cfg.jwt.secret, "jwt-secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	jwtExpiration := flag.Int("jwt-expiration-minutes", envInt("JWT_EXPIRATION_MINUTES", 60), "JWT expiration in minutes")

	flag.StringVar(&cfg.smtp.host, "smtp-host", os.Getenv("SMTP_HOST"), "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", envInt("SMTP_PORT", 25), "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", os.Getenv("SMTP_SENDER"), "SMTP sender")

	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", envString("LIMITER_ENABLED", "true") == "true", "Enable rate limiter")
	flag.Float64Var(&cfg.limiter.maxRequestPerSecond, "limiter-rps", 10, "Rate limiter max requests per second per client")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 20, "Rate limiter burst per client")

	var trustedOrigins string
	flag.StringVar(&trustedOrigins, "cors-trusted-origins", os.Getenv("CORS_TRUSTED_ORIGINS"), "CORS trusted origins (space separated)")
	flag.Parse()

	cfg.jwt.expiration = time.Duration(*jwtExpiration) * time.Minute
	cfg.cors.trustedOrigins = strings.Fields(trustedOrigins)

	logger := logrus.New()
	if cfg.env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.jwt.secret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	d, err := time.ParseDuration(maxIdleTime)
	if err != nil {
		cfg.db.maxIdleTime = 15 * time.Minute
		logger.Warnf(`invalid value %q for flag "db-max-idle-time", defaulting to %s`, maxIdleTime, cfg.db.maxIdleTime)
	} else {
		cfg.db.maxIdleTime = d
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("connecting to database")
	}
	defer db.Close()
	logger.Info("established a connection with database")

	app := &application{
		config:  cfg,
		logger:  logger,
		storage: newPostgresStorage(db),
	}
	if cfg.smtp.host != "" {
		app.mailer = newMailer(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.port),
		Handler:      composeRoutes(app),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.WithField("signal", s.String()).Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	logger.WithFields(logrus.Fields{
		"env":  cfg.env,
		"addr": srv.Addr,
	}).Info("starting server")

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server stopped unexpectedly")
	}
	if err := <-shutdownErr; err != nil {
		logger.WithError(err).Fatal("graceful shutdown failed")
	}
	logger.Info("stopped server")
}
