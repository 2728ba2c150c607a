// File: /models/telemetry_test.go
package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  float64
		isNaN bool
	}{
		{"number", `52.52`, 52.52, false},
		{"string number", `"52.52"`, 52.52, false},
		{"comma decimal", `"52,52"`, 52.52, false},
		{"null", `null`, 0, true},
		{"empty string", `""`, 0, true},
		{"garbage", `"n/a"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if tt.isNaN {
				if !math.IsNaN(float64(f)) {
					t.Errorf("expected NaN, got %v", float64(f))
				}
				return
			}
			if float64(f) != tt.want {
				t.Errorf("got %v, want %v", float64(f), tt.want)
			}
		})
	}
}

func TestParseProviderTime(t *testing.T) {
	// zone-less timestamps are UTC
	got, err := ParseProviderTime("2025-03-14 08:30:00")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = ParseProviderTime("2025-03-14T08:30:00")
	if err != nil {
		t.Fatalf("ISO variant parse error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("ISO variant: got %v, want %v", got, want)
	}

	got, err = ParseProviderTime("2025-03-14T10:30:00+02:00")
	if err != nil {
		t.Fatalf("RFC3339 parse error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("RFC3339: got %v, want %v", got, want)
	}

	if _, err := ParseProviderTime(""); err == nil {
		t.Error("empty timestamp should not parse")
	}
	if _, err := ParseProviderTime("yesterday"); err == nil {
		t.Error("garbage timestamp should not parse")
	}
}

func TestToSampleRejectsNonFinite(t *testing.T) {
	obj := ProviderObject{
		Name:      "B-FT 1234",
		Latitude:  FlexFloat(math.NaN()),
		Longitude: 13.4,
	}
	if _, err := obj.ToSample(time.Now()); err == nil {
		t.Error("NaN latitude must be rejected")
	}

	obj = ProviderObject{
		Name:      "B-FT 1234",
		Latitude:  52.5,
		Longitude: FlexFloat(math.Inf(1)),
	}
	if _, err := obj.ToSample(time.Now()); err == nil {
		t.Error("Inf longitude must be rejected")
	}
}

func TestToSampleTimestampFallback(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	obj := ProviderObject{
		Name: "B-FT 1234", Latitude: 52.5, Longitude: 13.4,
		DtTracker: "2025-06-01 11:59:55",
		DtServer:  "2025-06-01 11:59:58",
	}
	s, err := obj.ToSample(now)
	if err != nil {
		t.Fatalf("ToSample: %v", err)
	}
	if !s.Timestamp.Equal(time.Date(2025, 6, 1, 11, 59, 55, 0, time.UTC)) {
		t.Errorf("tracker timestamp preferred, got %v", s.Timestamp)
	}

	obj.DtTracker = ""
	s, _ = obj.ToSample(now)
	if !s.Timestamp.Equal(time.Date(2025, 6, 1, 11, 59, 58, 0, time.UTC)) {
		t.Errorf("server timestamp fallback, got %v", s.Timestamp)
	}

	obj.DtServer = ""
	s, _ = obj.ToSample(now)
	if !s.Timestamp.Equal(now) {
		t.Errorf("now fallback, got %v", s.Timestamp)
	}
}

func TestToSampleNonFiniteExtras(t *testing.T) {
	obj := ProviderObject{
		Name: "B-FT 1234", Latitude: 52.5, Longitude: 13.4,
		Speed: FlexFloat(math.NaN()),
		Angle: FlexFloat(math.NaN()),
	}
	s, err := obj.ToSample(time.Now())
	if err != nil {
		t.Fatalf("ToSample: %v", err)
	}
	if s.Speed != 0 {
		t.Errorf("NaN speed should default to 0, got %v", s.Speed)
	}
	if s.Angle != 0 {
		t.Errorf("NaN angle should default to 0, got %v", s.Angle)
	}
}

func TestParseProviderObjects(t *testing.T) {
	body := []byte(`[{"name":"B-FT 1","lat":"52,52","lng":13.4},{"name":"B-FT 2","lat":48.1,"lng":11.6}]`)
	objects, err := ParseProviderObjects(body)
	if err != nil {
		t.Fatalf("array parse: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if float64(objects[0].Latitude) != 52.52 {
		t.Errorf("comma decimal latitude = %v", float64(objects[0].Latitude))
	}

	// single-object responses come back bare
	objects, err = ParseProviderObjects([]byte(`{"name":"B-FT 1","lat":52.5,"lng":13.4}`))
	if err != nil {
		t.Fatalf("single object parse: %v", err)
	}
	if len(objects) != 1 || objects[0].Name != "B-FT 1" {
		t.Errorf("single object = %+v", objects)
	}

	if _, err := ParseProviderObjects([]byte(`not json`)); err == nil {
		t.Error("garbage body should fail")
	}
}
