// File: /models/telemetry.go
package models

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// FlexFloat accepts JSON numbers as well as textual numbers. Some GPS
// providers serialize coordinates as strings, and depending on device locale
// those strings may carry a comma decimal separator.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = FlexFloat(math.NaN())
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = FlexFloat(math.NaN())
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// ProviderObject is one raw telemetry record as returned by the upstream GPS
// provider's USER_GET_OBJECTS call
type ProviderObject struct {
	IMEI      string    `json:"imei"`
	Name      string    `json:"name"` // truck plate number
	Latitude  FlexFloat `json:"lat"`
	Longitude FlexFloat `json:"lng"`
	Location  string    `json:"loc"`
	Speed     FlexFloat `json:"speed"`
	Engine    string    `json:"engine"`
	Angle     FlexFloat `json:"angle"`
	Altitude  FlexFloat `json:"altitude"`
	Odometer  FlexFloat `json:"odometer"`
	Status    string    `json:"status"`
	DtServer  string    `json:"dt_server"`
	DtTracker string    `json:"dt_tracker"`
	Params    JSONData  `json:"params"`
}

// PositionSample is one validated telemetry reading, ready for rendering and
// geofence evaluation
type PositionSample struct {
	Plate     string    `json:"plate"`
	IMEI      string    `json:"imei"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Location  string    `json:"location"`
	Speed     float64   `json:"speed"` // km/h
	Engine    string    `json:"engine"`
	Angle     int       `json:"angle"`
	Altitude  float64   `json:"altitude"`
	Odometer  float64   `json:"odometer"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

var ErrInvalidCoordinates = errors.New("sample has non-finite coordinates")

// providerTimeLayouts covers the timestamp shapes seen from the provider:
// the usual "2006-01-02 15:04:05" and ISO variants with or without a zone.
var providerTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseProviderTime parses a provider timestamp. Timestamps without a zone
// suffix are treated as UTC.
func ParseProviderTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range providerTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp: " + raw)
}

// ToSample validates and converts a raw provider record. Records with
// non-finite coordinates are rejected; a missing tracker timestamp falls back
// to the server timestamp, then to now.
func (o *ProviderObject) ToSample(now time.Time) (*PositionSample, error) {
	lat := float64(o.Latitude)
	lng := float64(o.Longitude)
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return nil, ErrInvalidCoordinates
	}

	ts, err := ParseProviderTime(o.DtTracker)
	if err != nil {
		if ts, err = ParseProviderTime(o.DtServer); err != nil {
			ts = now.UTC()
		}
	}

	angle := 0
	if a := float64(o.Angle); !math.IsNaN(a) && !math.IsInf(a, 0) {
		angle = int(a)
	}

	sample := &PositionSample{
		Plate:     o.Name,
		IMEI:      o.IMEI,
		Latitude:  lat,
		Longitude: lng,
		Location:  o.Location,
		Engine:    o.Engine,
		Angle:     angle,
		Status:    o.Status,
		Timestamp: ts,
	}
	if v := float64(o.Speed); !math.IsNaN(v) && !math.IsInf(v, 0) {
		sample.Speed = v
	}
	if v := float64(o.Altitude); !math.IsNaN(v) && !math.IsInf(v, 0) {
		sample.Altitude = v
	}
	if v := float64(o.Odometer); !math.IsNaN(v) && !math.IsInf(v, 0) {
		sample.Odometer = v
	}
	return sample, nil
}

// ParseProviderObjects decodes the provider response body into raw records
func ParseProviderObjects(body []byte) ([]ProviderObject, error) {
	var objects []ProviderObject
	if err := json.Unmarshal(body, &objects); err != nil {
		// single-object responses come back as a bare object
		var single ProviderObject
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			return nil, err
		}
		objects = []ProviderObject{single}
	}
	return objects, nil
}
