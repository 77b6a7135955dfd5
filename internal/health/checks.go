package health

import (
	"context"
	"fmt"
)

const (
	DatabaseID = "database"
	CatalogID  = "catalog"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DatabaseCheck reports an error when the cache database is unreachable.
func DatabaseCheck(db Pinger) Checker {
	return func(ctx context.Context) Result {
		if err := db.PingContext(ctx); err != nil {
			return Error(fmt.Sprintf("database unreachable: %v", err))
		}
		return OK()
	}
}

// CatalogStatus is satisfied by the remote catalog client.
type CatalogStatus interface {
	IsConfigured() bool
	BreakerState() string
}

// CatalogCheck maps the remote client's circuit breaker onto a status.
func CatalogCheck(catalog CatalogStatus) Checker {
	return func(context.Context) Result {
		if !catalog.IsConfigured() {
			return Warning("no API key configured, serving cached data only")
		}
		switch state := catalog.BreakerState(); state {
		case "closed":
			return OK()
		case "half-open":
			return Warning("remote catalog recovering")
		default:
			return Error(fmt.Sprintf("remote catalog unavailable (breaker %s)", state))
		}
	}
}
