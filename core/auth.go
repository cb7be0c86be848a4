package core

import "time"

// Mode selects which authentication flow a challenge belongs to.
type Mode string

const (
	// ModeLogin authenticates an existing account.
	ModeLogin Mode = "login"

	// ModeRegistration creates a new account.
	ModeRegistration Mode = "register"
)

// Endpoint returns the verification-service path for the mode.
func (m Mode) Endpoint() string {
	if m == ModeRegistration {
		return "/signup"
	}
	return "/signin"
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeLogin || m == ModeRegistration
}

// Credential is the opaque bearer token issued by the verification service.
type Credential struct {
	Value     string    // The token itself, opaque to this package
	IssuedAt  time.Time // When the token was committed locally
	ExpiresAt time.Time // IssuedAt plus the configured TTL
}

// Principal holds the credentials collected before the biometric step.
// It is owned by the page controller that collected it, handed by pointer
// to the capture coordinator, and never persisted.
type Principal struct {
	Username string // Login identifier; the login form submits the email here
	Email    string // Only sent on registration
	Password string
}

// Sample is one captured biometric artifact, opaque to the session core.
type Sample struct {
	Data []byte
	MIME string
}

// TokenRecord is the durable shape of a committed credential, stored
// under the fixed "authToken" key. Expiry and SetAt are epoch
// milliseconds.
type TokenRecord struct {
	Value  string `json:"value"`
	Expiry int64  `json:"expiry"`
	SetAt  int64  `json:"setAt"`
}

// Malformed reports whether the record fails structural validation.
// Malformed records are treated as absent and cleared by the reader.
func (r TokenRecord) Malformed() bool {
	return r.Value == "" || r.Expiry == 0
}

// Expired reports whether the record is past its expiry at the given instant.
func (r TokenRecord) Expired(now time.Time) bool {
	return now.UnixMilli() > r.Expiry
}
