package view

import (
	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"

	"surveillance-dashboard/internal/model"
)

// DefaultCenter is used when no camera has a usable position.
var DefaultCenter = LatLng{Lat: 31.4816, Lng: 74.0776}

const DefaultZoom = 15

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MapView struct {
	Center  LatLng         `json:"center"`
	Zoom    int            `json:"zoom"`
	Markers []model.Camera `json:"markers"`
}

// HasPosition reports whether the camera can be placed on the map. Zero
// coordinates count as missing.
func HasPosition(c model.Camera) bool {
	if c.Latitude == 0 || c.Longitude == 0 {
		return false
	}
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

// BuildMap keeps cameras with a position and centers the map on their mean.
func BuildMap(cameras []model.Camera) MapView {
	markers := make([]model.Camera, 0, len(cameras))
	for _, c := range cameras {
		if HasPosition(c) {
			markers = append(markers, c)
		}
	}

	center := DefaultCenter
	if len(markers) > 0 {
		var lat, lng float64
		for _, c := range markers {
			lat += c.Latitude
			lng += c.Longitude
		}
		n := float64(len(markers))
		center = LatLng{Lat: lat / n, Lng: lng / n}
	}

	return MapView{Center: center, Zoom: DefaultZoom, Markers: markers}
}

// FeatureCollection renders the markers as GeoJSON points.
func (m MapView) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range m.Markers {
		f := geojson.NewPointFeature([]float64{c.Longitude, c.Latitude})
		f.ID = c.CameraID
		f.SetProperty("camera_id", c.CameraID)
		f.SetProperty("name", c.Name)
		f.SetProperty("address", c.Address)
		f.SetProperty("status", c.Status)
		f.SetProperty("last_ping", c.LastPing)
		fc.AddFeature(f)
	}
	return fc
}
