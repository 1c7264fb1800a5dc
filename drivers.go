package main

import (
	"net/http"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ParseDatabaseDriver picks the gorm driver matching the database URL
// scheme. Returns nil if the scheme is not recognized.
func ParseDatabaseDriver(dbURL string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dbURL, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dbURL, "mysql://"))
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		// The postgres driver takes the URL whole
		return postgres.Open(dbURL)
	case strings.HasPrefix(dbURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://"))
	}
	return nil
}

// checkOrigin builds the origin check shared by the socket transports.
// An empty allowlist accepts any origin.
func checkOrigin(allowedOrigins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowedOrigins) == 0 {
			return true
		}

		// Non-browser clients send no Origin header
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		for _, allowed := range allowedOrigins {
			if strings.EqualFold(origin, allowed) {
				return true
			}
		}
		return false
	}
}
