package credentials

import (
	"fmt"

	"github.com/the-maldridge/hookmirror/pkg/config"
)

// FromConfig builds the provider named in the configuration.
func FromConfig(c config.Credentials) (Provider, error) {
	switch c.Provider {
	case "", "none":
		return None{}, nil
	case "static":
		return Static{Username: c.Username, Token: c.Token}, nil
	case "keyring":
		return Keyring{Service: c.KeyringService, Username: c.Username}, nil
	default:
		return nil, fmt.Errorf("unknown credential provider %q", c.Provider)
	}
}
