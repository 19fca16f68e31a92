package libms

import (
	"os"
	"time"
)

const (
	// DefaultBaseURL is the backend API root used when neither the
	// environment nor the config file overrides it.
	DefaultBaseURL = "http://localhost:5000/api"

	// DefaultTimeout bounds every request. The original front-end had no
	// timeout and a hung request left the UI loading forever; the client
	// refuses to reproduce that.
	DefaultTimeout = 15 * time.Second
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config from defaults and the SHELFCTL_SERVER
// environment variable.
func DefaultConfig() Config {
	base := DefaultBaseURL
	if s := os.Getenv("SHELFCTL_SERVER"); s != "" {
		base = s
	}
	return Config{BaseURL: base, Timeout: DefaultTimeout}
}
