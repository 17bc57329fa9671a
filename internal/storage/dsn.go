package storage

import (
	"net/url"
	"strings"
)

// IsPostgres reports whether dsn selects the PostgreSQL backend.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password, either in URL userinfo or as a DSN key.
func HasEmbeddedCredentials(dsn string) bool {
	if IsPostgres(dsn) {
		u, err := url.Parse(dsn)
		if err != nil {
			return false
		}
		_, isSet := u.User.Password()
		return isSet
	}
	for _, pair := range strings.Fields(dsn) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return true
		}
	}
	return false
}
