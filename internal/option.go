package internal

import (
	"io"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
	fileNumber string
	relayURL   string
	noHistory  bool
	logFile    string
	out        io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath sets the config file watched for changes while serving.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithFileNumber makes the lookup command print one result and exit.
func WithFileNumber(n string) Option {
	return func(a *application) {
		a.fileNumber = n
	}
}

// WithRelayURL overrides portal.relay_url.
func WithRelayURL(u string) Option {
	return func(a *application) {
		a.relayURL = u
	}
}

// WithoutHistory disables the persistent recent-searches store.
func WithoutHistory() Option {
	return func(a *application) {
		a.noHistory = true
	}
}

// WithLogFile sends lookup UI logs to path instead of discarding them.
func WithLogFile(path string) Option {
	return func(a *application) {
		a.logFile = path
	}
}

// WithOutput sets where one-shot lookup results are printed.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}
