package dbtime

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

var appLoc = loadLocation()

func loadLocation() *time.Location {
	if loc, err := time.LoadLocation("America/Bogota"); err == nil {
		return loc
	}
	return time.UTC
}

// Location zona waktu operasional (Colombia), fallback UTC.
func Location() *time.Location { return appLoc }

// Year tahun kalender t di zona operasional; dipakai untuk penomoran código/ficha.
func Year(t time.Time) int { return t.In(appLoc).Year() }

// ParseDate "YYYY-MM-DD" → datatypes.Date; string kosong → nil.
func ParseDate(s string) (*datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q (formato YYYY-MM-DD)", s)
	}
	d := datatypes.Date(t)
	return &d, nil
}

func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(DateLayout)
}
