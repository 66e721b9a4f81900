package domain

import "sort"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Landmark is a named point of interest.
type Landmark struct {
	Name string `json:"name"`
	Geo  Geo    `json:"geo"`
}

var parisLandmarks = map[string]Geo{
	"Eiffel Tower":         {Lat: 48.8588443, Lon: 2.2943506},
	"Louvre Museum":        {Lat: 48.8606111, Lon: 2.337644},
	"Notre-Dame Cathedral": {Lat: 48.853844, Lon: 2.349998},
	"Montmartre":           {Lat: 48.8867, Lon: 2.3431},
}

// LookupLandmark returns the coordinates of a known landmark. Names match exactly.
func LookupLandmark(name string) (Geo, bool) {
	g, ok := parisLandmarks[name]
	return g, ok
}

// Landmarks returns every known landmark sorted by name.
func Landmarks() []Landmark {
	out := make([]Landmark, 0, len(parisLandmarks))
	for name, g := range parisLandmarks {
		out = append(out, Landmark{Name: name, Geo: g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
