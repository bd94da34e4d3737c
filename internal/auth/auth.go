// Package auth provides FTK Central / Enterprise API authentication.
package auth

import "net/http"

// Credentials holds FTK API authentication material. APIKey is used when set;
// Username/Password is the fallback for Active Directory deployments.
type Credentials struct {
	APIKey   string
	Username string
	Password string
}

// Apply adds authentication to an HTTP request.
func (c *Credentials) Apply(req *http.Request) {
	if c == nil {
		return
	}
	if c.APIKey != "" {
		req.Header.Set("EnterpriseApiKey", c.APIKey)
		return
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
}

// Valid reports whether credentials are configured. Basic auth needs both a
// username and a password.
func (c *Credentials) Valid() bool {
	return c != nil && (c.APIKey != "" || (c.Username != "" && c.Password != ""))
}
