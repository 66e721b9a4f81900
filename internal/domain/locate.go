package domain

import (
	"context"
	"log/slog"
)

// Location sources reported by [Locator.Locate].
const (
	SourceLandmark = "landmark"
	SourceGeocoder = "geocoder"
)

// LocateResult is a resolved place.
type LocateResult struct {
	Name             string `json:"name"`
	Geo              Geo    `json:"geo"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	Source           string `json:"source"`
}

// Locator resolves place names against the landmark table, falling back to
// an optional geocoder for names outside it.
type Locator struct {
	geocoder Geocoder
	region   string
	logger   *slog.Logger
}

// NewLocator creates a Locator. Pass a nil geocoder to restrict lookups to
// the fixed landmark table.
func NewLocator(geocoder Geocoder, region string, logger *slog.Logger) *Locator {
	return &Locator{geocoder: geocoder, region: region, logger: logger}
}

// Locate returns ErrLocationNotFound when neither the table nor the
// geocoder knows the name. Geocoder failures degrade to ErrLocationNotFound
// and are logged.
func (l *Locator) Locate(ctx context.Context, name string) (LocateResult, error) {
	if g, ok := LookupLandmark(name); ok {
		return LocateResult{Name: name, Geo: g, Source: SourceLandmark}, nil
	}
	if l.geocoder == nil || name == "" {
		return LocateResult{}, ErrLocationNotFound
	}

	result, err := l.geocoder.ForwardGeocode(ctx, name, l.region)
	if err != nil {
		l.logger.Warn("forward geocoding failed", "name", name, "region", l.region, "error", err)
		return LocateResult{}, ErrLocationNotFound
	}
	if result.Lat == 0 && result.Lon == 0 {
		return LocateResult{}, ErrLocationNotFound
	}
	return LocateResult{
		Name:             name,
		Geo:              Geo{Lat: result.Lat, Lon: result.Lon},
		FormattedAddress: result.FormattedAddress,
		Source:           SourceGeocoder,
	}, nil
}
