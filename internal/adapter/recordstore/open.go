// Package recordstore selects the record store backend by driver name.
package recordstore

import (
	"context"
	"fmt"

	"github.com/couchcryptid/insurance-quote-service/internal/adapter/csvstore"
	"github.com/couchcryptid/insurance-quote-service/internal/adapter/sqlite"
	"github.com/couchcryptid/insurance-quote-service/internal/config"
	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

// Store is a record store that holds resources until closed.
type Store interface {
	Load(ctx context.Context) ([]domain.Record, error)
	Submit(ctx context.Context, rec domain.Record) error
	Close() error
}

// Open returns the store for driver at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case config.StoreCSV:
		return csvstore.New(path), nil
	case config.StoreSQLite:
		s, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
