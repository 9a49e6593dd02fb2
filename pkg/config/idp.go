package config

import (
	"fmt"
	"strings"
	"time"
)

// IdP holds the settings services need to verify bearer tokens issued by the
// identity provider.
type IdP struct {
	JwksURL     string        `koanf:"jwksurl"`
	Issuer      string        `koanf:"issuer"`
	MinInterval time.Duration `koanf:"mininterval"`
}

func (c *IdP) Validate() error {
	if c.JwksURL == "" {
		return fmt.Errorf("IdP JWKS URL cannot be empty")
	}
	if c.Issuer == "" {
		return fmt.Errorf("IdP issuer cannot be empty")
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("IdP minimum interval must be greater than zero")
	}
	return nil
}

// Keycloak holds the settings the user service needs to call the identity
// provider on behalf of users: the realm, the confidential client and its
// secret. The secret doubles as the key for the per-user client signature.
type Keycloak struct {
	BaseURL      string `koanf:"baseurl"`
	Realm        string `koanf:"realm"`
	ClientID     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

// String returns a string representation of the Keycloak configuration with
// the client secret masked.
func (c *Keycloak) String() string {
	var b strings.Builder
	b.WriteString("\n--- Identity Provider ---\n")
	b.WriteString(fmt.Sprintf("  baseurl: %s\n", c.BaseURL))
	b.WriteString(fmt.Sprintf("  realm: %s\n", c.Realm))
	b.WriteString(fmt.Sprintf("  clientid: %s\n", c.ClientID))
	b.WriteString("  clientsecret: ****\n")
	return b.String()
}

func (c *Keycloak) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("identity provider base URL cannot be empty")
	}
	if c.Realm == "" {
		return fmt.Errorf("identity provider realm cannot be empty")
	}
	if c.ClientID == "" {
		return fmt.Errorf("identity provider client ID cannot be empty")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("identity provider client secret cannot be empty")
	}
	return nil
}
