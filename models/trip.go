// File: /models/trip.go
package models

import (
	"time"
)

type TripStatus string

const (
	TripStatusPlanned    TripStatus = "planned"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// RoutePoint is one recorded point on a trip's route. Timestamp stays a raw
// string on the wire; it may be absent or zone-less and is parsed lazily by
// the route normalizer.
type RoutePoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Location  string  `json:"loc"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// Trip is a single haul assignment for a truck. The route column accumulates
// GPS points appended by the telemetry ingester while the trip is in progress.
type Trip struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TruckID     uint           `json:"truck_id" gorm:"not null;index"`
	DriverID    *string        `json:"driver_id" gorm:"size:191"`
	Origin      string         `json:"origin" gorm:"size:255"`
	Destination string         `json:"destination" gorm:"size:255"`
	Status      TripStatus     `json:"status" gorm:"size:20;default:'planned';index"`
	Route       RoutePointList `json:"route" gorm:"type:json"`
	StartedAt   *time.Time     `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Truck Truck `json:"-" gorm:"foreignKey:TruckID"`
}

func (Trip) TableName() string {
	return "trips"
}

// TripRouteResponse is the payload of GET /trips/:id/route: the normalized
// route plus the truck's active fences
type TripRouteResponse struct {
	Route  []RoutePoint  `json:"route"`
	Fences []FenceRecord `json:"fences"`
}
