// File: /models/types.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONData is a custom type for handling arbitrary JSON objects in database
type JSONData map[string]interface{}

// Value implements driver.Valuer interface for database storage
func (j JSONData) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface for database retrieval
func (j *JSONData) Scan(value interface{}) error {
	if value == nil {
		*j = JSONData{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONData", value)
	}
}

// GormDataType returns the data type for GORM
func (JSONData) GormDataType() string {
	return "json"
}

// RoutePointList stores a trip's route as a JSON array column
type RoutePointList []RoutePoint

func (r RoutePointList) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal(RoutePointList{})
	}
	return json.Marshal(r)
}

func (r *RoutePointList) Scan(value interface{}) error {
	if value == nil {
		*r = RoutePointList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into RoutePointList", value)
	}
}

func (RoutePointList) GormDataType() string {
	return "json"
}
