package models

import (
	"time"
)

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64 `firestore:"lat" json:"lat"`
	Lng float64 `firestore:"lng" json:"lng"`
}

// Valid reports whether the coordinate is inside the WGS84 domain.
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Contact holds a mall's contact block.
type Contact struct {
	Phone   string `firestore:"phone,omitempty" json:"phone,omitempty"`
	Website string `firestore:"website,omitempty" json:"website,omitempty"`
	Social  string `firestore:"social,omitempty" json:"social,omitempty"`
}

// OpenHours holds open/close time strings, e.g. "10:00"–"22:00".
type OpenHours struct {
	Open  string `firestore:"open" json:"open"`
	Close string `firestore:"close" json:"close"`
}

// Mall represents a shopping center document.
// Firestore: malls/{mallId}
type Mall struct {
	ID             string     `firestore:"-" json:"id"`
	Name           string     `firestore:"name" json:"name"` // slug เช่น "central-rama-3"
	DisplayName    string     `firestore:"displayName" json:"display_name"`
	NameNormalized string     `firestore:"name_normalized" json:"-"`
	Address        string     `firestore:"address,omitempty" json:"address,omitempty"`
	District       string     `firestore:"district,omitempty" json:"district,omitempty"`
	Contact        *Contact   `firestore:"contact,omitempty" json:"contact,omitempty"`
	Coords         *LatLng    `firestore:"coords,omitempty" json:"coords,omitempty"`
	Hours          *OpenHours `firestore:"hours,omitempty" json:"hours,omitempty"`
	LogoURL        string     `firestore:"logoUrl,omitempty" json:"logo_url,omitempty"`
	StoreCount     int        `firestore:"storeCount" json:"store_count"`
	FloorCount     int        `firestore:"floorCount" json:"floor_count"`
	CreatedAt      time.Time  `firestore:"createdAt" json:"created_at"`
	UpdatedAt      time.Time  `firestore:"updatedAt" json:"updated_at"`
}

// Floor represents one level of a mall.
// Firestore: malls/{mallId}/floors/{floorId}
type Floor struct {
	ID     string `firestore:"-" json:"id"`
	Label  string `firestore:"label" json:"label"` // "G", "1", "2", ...
	Order  int    `firestore:"order" json:"order"`
	MallID string `firestore:"-" json:"mall_id"`
}

// DefaultFloorLabels are the floors created for a new mall.
var DefaultFloorLabels = []string{"G", "1", "2", "3", "4", "5"}
