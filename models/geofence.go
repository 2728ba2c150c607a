// File: /models/geofence.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type FenceType string

const (
	FenceCircle  FenceType = "circle"
	FenceRect    FenceType = "rect"
	FencePolygon FenceType = "polygon"
)

// LatLng marshals as a two-element [lat, lng] array, the shape the map UI and
// the original persistence format use.
type LatLng struct {
	Lat float64
	Lng float64
}

func (l LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{l.Lat, l.Lng})
}

func (l *LatLng) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [lat, lng], got %d elements", len(pair))
	}
	l.Lat, l.Lng = pair[0], pair[1]
	return nil
}

// FenceGeometry holds the variant-specific shape data:
//   - circle: center + radius (meters)
//   - rect: sw + ne corners
//   - polygon: ordered vertex list, minimum 3
type FenceGeometry struct {
	Center *LatLng  `json:"center,omitempty"`
	Radius float64  `json:"radius,omitempty"`
	SW     *LatLng  `json:"sw,omitempty"`
	NE     *LatLng  `json:"ne,omitempty"`
	Points []LatLng `json:"points,omitempty"`
}

func (g FenceGeometry) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *FenceGeometry) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*g = FenceGeometry{}
		return nil
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	default:
		return fmt.Errorf("cannot scan %T into FenceGeometry", value)
	}
}

func (FenceGeometry) GormDataType() string {
	return "json"
}

// Validate checks the geometry against its declared type
func (g *FenceGeometry) Validate(t FenceType) error {
	switch t {
	case FenceCircle:
		if g.Center == nil || g.Radius <= 0 {
			return errors.New("circle requires center and positive radius")
		}
	case FenceRect:
		if g.SW == nil || g.NE == nil {
			return errors.New("rect requires sw and ne corners")
		}
	case FencePolygon:
		if len(g.Points) < 3 {
			return errors.New("polygon requires at least 3 points")
		}
	default:
		return fmt.Errorf("invalid fence type %q", t)
	}
	return nil
}

// Geofence persists fences so they appear across devices. Clearing
// deactivates rather than deletes, matching the original store.
type Geofence struct {
	ID        string        `json:"id" gorm:"primaryKey;size:191"`
	TruckID   uint          `json:"truck_id" gorm:"not null;index:idx_geofences_truck_active"`
	Name      string        `json:"name" gorm:"size:128"`
	Type      FenceType     `json:"type" gorm:"not null;size:16"`
	Geometry  FenceGeometry `json:"geometry" gorm:"type:json"`
	Active    bool          `json:"active" gorm:"default:true;index:idx_geofences_truck_active"`
	CreatedBy string        `json:"created_by" gorm:"size:191"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Truck Truck `json:"-" gorm:"foreignKey:TruckID"`
}

func (Geofence) TableName() string {
	return "geofences"
}

// FenceRecord is the flattened wire shape for fence list responses and event
// payloads: type/name plus the geometry keys inlined
type FenceRecord struct {
	ID     string    `json:"id"`
	Type   FenceType `json:"type"`
	Name   string    `json:"name"`
	Center *LatLng   `json:"center,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	SW     *LatLng   `json:"sw,omitempty"`
	NE     *LatLng   `json:"ne,omitempty"`
	Points []LatLng  `json:"points,omitempty"`
}

// ToRecord flattens a stored fence for the wire
func (f *Geofence) ToRecord() FenceRecord {
	return FenceRecord{
		ID:     f.ID,
		Type:   f.Type,
		Name:   f.Name,
		Center: f.Geometry.Center,
		Radius: f.Geometry.Radius,
		SW:     f.Geometry.SW,
		NE:     f.Geometry.NE,
		Points: f.Geometry.Points,
	}
}

type GeofenceEventType string

const (
	GeofenceCreated  GeofenceEventType = "created"
	GeofenceDisabled GeofenceEventType = "disabled"
	GeofenceEntered  GeofenceEventType = "entered"
	GeofenceExited   GeofenceEventType = "exited"
)

// GeofenceEvent is the payload delivered to notification sinks when a truck
// crosses a fence boundary or a fence's lifecycle changes
type GeofenceEvent struct {
	ID        string            `json:"id"`
	EventType GeofenceEventType `json:"event_type"`
	Fence     FenceRecord       `json:"fence"`
	TruckID   uint              `json:"truck_id"`
	Plate     string            `json:"plate_number"`
	Position  *LatLng           `json:"position,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
