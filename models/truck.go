// File: /models/truck.go
package models

import (
	"time"
)

type TruckStatus string

const (
	TruckStatusAvailable   TruckStatus = "available"
	TruckStatusInUse       TruckStatus = "in_use"
	TruckStatusMaintenance TruckStatus = "maintenance"
)

// Truck is a tracked fleet vehicle. The plate number doubles as the key the
// GPS provider reports positions under.
type Truck struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	PlateNumber string      `json:"plate_number" gorm:"not null;uniqueIndex;size:32"`
	Model       string      `json:"model" gorm:"size:128"`
	DriverName  string      `json:"driver_name" gorm:"size:128"`
	DriverID    *string     `json:"driver_id" gorm:"size:191"` // optional link to a User with role DRIVER
	Status      TruckStatus `json:"status" gorm:"size:20;default:'available'"`
	Mileage     float64     `json:"mileage"` // odometer, km
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Truck) TableName() string {
	return "trucks"
}

// GPSRecord is one persisted telemetry reading for a truck
type GPSRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TruckID   uint      `json:"truck_id" gorm:"not null;index:idx_gps_truck_tracker"`
	IMEI      string    `json:"imei" gorm:"size:32"`
	Name      string    `json:"name" gorm:"size:32"` // provider-side name, the plate number
	Latitude  float64   `json:"latitude" gorm:"not null"`
	Longitude float64   `json:"longitude" gorm:"not null"`
	Location  string    `json:"location" gorm:"size:255"` // reverse-geocoded label from the provider
	Engine    string    `json:"engine" gorm:"size:32"`
	Status    string    `json:"status" gorm:"size:64"`
	Angle     int       `json:"angle"`
	Speed     float64   `json:"speed"`    // km/h
	Altitude  float64   `json:"altitude"` // meters
	Odometer  float64   `json:"odometer"` // km
	DtServer  time.Time `json:"dt_server"`
	DtTracker time.Time `json:"dt_tracker" gorm:"index:idx_gps_truck_tracker"`
	Params    JSONData  `json:"params" gorm:"type:json"`
	CreatedAt time.Time `json:"created_at"`

	Truck Truck `json:"-" gorm:"foreignKey:TruckID"`
}

func (GPSRecord) TableName() string {
	return "gps_records"
}

// LiveTruckResponse is the per-truck payload for the dashboard list and the
// single-vehicle live endpoint
type LiveTruckResponse struct {
	ID          uint        `json:"id"`
	PlateNumber string      `json:"plate_number"`
	DriverName  string      `json:"driver_name,omitempty"`
	Status      TruckStatus `json:"status"`
	Latitude    *float64    `json:"latitude"`
	Longitude   *float64    `json:"longitude"`
	Speed       *float64    `json:"speed"`
	Engine      string      `json:"engine,omitempty"`
	Angle       int         `json:"angle"`
	Location    string      `json:"location,omitempty"`
	Timestamp   *time.Time  `json:"timestamp"`
	AgeSeconds  *float64    `json:"age_seconds"`
}
