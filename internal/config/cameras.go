package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// CameraLocation is the static position metadata for one camera id.
type CameraLocation struct {
	CameraID  string  `yaml:"camera_id"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Address   string  `yaml:"address"`
}

// CameraTable maps camera ids to locations. Order of Cameras is kept, it is
// also the order of the fallback directory.
type CameraTable struct {
	Cameras []CameraLocation `yaml:"cameras"`
	Default CameraLocation   `yaml:"default"`
}

func DefaultCameraTable() CameraTable {
	return CameraTable{
		Cameras: []CameraLocation{
			{CameraID: "Camera 1", Latitude: 33.54249963363487, Longitude: 73.09658109653496, Address: "Main Gate"},
			{CameraID: "Camera 2", Latitude: 33.54279963363487, Longitude: 73.09678109653496, Address: "Parking Area"},
			{CameraID: "Camera 3", Latitude: 33.54219963363487, Longitude: 73.09638109653496, Address: "Back Gate"},
			{CameraID: "Camera 4", Latitude: 33.54259963363487, Longitude: 73.09698109653496, Address: "East Side Entrance"},
			{CameraID: "Camera 5", Latitude: 33.54239963363487, Longitude: 73.09618109653496, Address: "West Side Entrance"},
		},
		Default: CameraLocation{
			Latitude:  33.54249963363487,
			Longitude: 73.09658109653496,
			Address:   "Unknown Location",
		},
	}
}

// LoadCameraTable reads the camera table from path. A missing file yields
// the built-in table.
func LoadCameraTable(path string) (CameraTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultCameraTable(), nil
		}
		return CameraTable{}, fmt.Errorf("read camera table: %w", err)
	}
	return ParseCameraTable(b)
}

func ParseCameraTable(b []byte) (CameraTable, error) {
	var t CameraTable
	if err := yaml.Unmarshal(b, &t); err != nil {
		return CameraTable{}, fmt.Errorf("parse camera table: %w", err)
	}

	seen := make(map[string]struct{}, len(t.Cameras))
	for _, c := range t.Cameras {
		if c.CameraID == "" {
			return CameraTable{}, fmt.Errorf("camera table: entry without camera_id")
		}
		if _, dup := seen[c.CameraID]; dup {
			return CameraTable{}, fmt.Errorf("camera table: duplicate camera_id %q", c.CameraID)
		}
		seen[c.CameraID] = struct{}{}
	}

	if t.Default.Address == "" {
		t.Default = DefaultCameraTable().Default
	}
	return t, nil
}

// Lookup returns the location for id, or the default location.
func (t CameraTable) Lookup(id string) (CameraLocation, bool) {
	for _, c := range t.Cameras {
		if c.CameraID == id {
			return c, true
		}
	}
	loc := t.Default
	loc.CameraID = id
	return loc, false
}
