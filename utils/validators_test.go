// File: /utils/validators_test.go
package utils

import "testing"

func TestIsValidPlate(t *testing.T) {
	valid := []string{"B-FT 1234", "HH AB 12", "kr-tx-99", "TRK001"}
	for _, p := range valid {
		if !IsValidPlate(p) {
			t.Errorf("plate %q rejected", p)
		}
	}

	invalid := []string{"", "X", "plate#1", "a plate number that is far too long"}
	for _, p := range invalid {
		if IsValidPlate(p) {
			t.Errorf("plate %q accepted", p)
		}
	}
}

func TestCoordinateValidators(t *testing.T) {
	if !IsValidCoordinate(52.5, 13.4) {
		t.Error("valid coordinate rejected")
	}
	if IsValidCoordinate(90.1, 0) || IsValidCoordinate(-90.1, 0) {
		t.Error("latitude out of range accepted")
	}
	if IsValidCoordinate(0, 180.1) || IsValidCoordinate(0, -180.1) {
		t.Error("longitude out of range accepted")
	}
	if !IsValidLatitude(90) || !IsValidLongitude(-180) {
		t.Error("range bounds must be inclusive")
	}
}

func TestIsValidRadius(t *testing.T) {
	if IsValidRadius(0) || IsValidRadius(-5) {
		t.Error("non-positive radius accepted")
	}
	if !IsValidRadius(250) {
		t.Error("sane radius rejected")
	}
	if IsValidRadius(2e6) {
		t.Error("absurd radius accepted")
	}
}
