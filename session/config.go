package session

import "time"

const (
	// DefaultTokenTTL is how long a committed credential stays valid
	// without use. Matches the verification service's own token expiry.
	DefaultTokenTTL = 30 * time.Minute

	// DefaultWatchdogInterval is how often the background watchdog
	// re-reads the token to trigger its expiry-clearing side effect.
	DefaultWatchdogInterval = 60 * time.Second

	// DefaultExchangeTimeout bounds one credential exchange with the
	// verification service.
	DefaultExchangeTimeout = 15 * time.Second
)

// Config carries the tunables of the session core. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// BaseURL of the verification service, without trailing slash.
	BaseURL string

	// TokenTTL is the sliding lifetime of a committed credential.
	TokenTTL time.Duration

	// WatchdogInterval is the period of the background revalidation loop.
	WatchdogInterval time.Duration

	// ExchangeTimeout bounds the multipart exchange of one challenge.
	ExchangeTimeout time.Duration

	// LoginPath is the unauthenticated entry point navigated to on
	// session teardown.
	LoginPath string

	// RegisterPath is the registration collection page, navigated back to
	// when a registration capture finds its credentials gone.
	RegisterPath string

	// DashboardPath is the protected destination navigated to after a
	// confirmed commit.
	DashboardPath string

	// AutoLoginOnRegister, when set, commits the credential returned by a
	// successful registration and goes straight to the dashboard. When
	// unset (the default), registration success routes back to the login
	// page and the user authenticates explicitly.
	AutoLoginOnRegister bool
}

// DefaultConfig returns a Config with the standard lifetimes and paths.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:          baseURL,
		TokenTTL:         DefaultTokenTTL,
		WatchdogInterval: DefaultWatchdogInterval,
		ExchangeTimeout:  DefaultExchangeTimeout,
		LoginPath:        "/login",
		RegisterPath:     "/register",
		DashboardPath:    "/dashboard",
	}
}
