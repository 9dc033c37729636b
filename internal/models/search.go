package models

// ResultKind tags a unified search result as a mall or a store hit.
type ResultKind string

const (
	KindMall  ResultKind = "mall"
	KindStore ResultKind = "store"
)

// SearchResult is one entry of the unified, ranked result list.
// Score decides ordering and is not meant for display.
type SearchResult struct {
	ID         string     `json:"id"`
	Kind       ResultKind `json:"kind"`
	Name       string     `json:"name"`
	MallID     string     `json:"mall_id,omitempty"`
	MallName   string     `json:"mall_name,omitempty"`
	FloorLabel string     `json:"floor_label,omitempty"`
	Category   string     `json:"category,omitempty"`
	Status     string     `json:"status,omitempty"`
	OpenHours  string     `json:"open_hours,omitempty"`
	LogoURL    string     `json:"logo_url,omitempty"`
	Coords     *LatLng    `json:"coords,omitempty"`
	DistanceKm *float64   `json:"distance_km,omitempty"`
	Score      float64    `json:"-"`
}

// SuggestionType distinguishes where a quick-pick suggestion came from.
type SuggestionType string

const (
	SuggestionHistory   SuggestionType = "history"
	SuggestionTimeBased SuggestionType = "time-based"
	SuggestionTrending  SuggestionType = "trending"
)

// Suggestion is one quick-pick entry shown under an empty search box.
type Suggestion struct {
	Type  SuggestionType `json:"type"`
	Text  string         `json:"text"`
	Label string         `json:"label,omitempty"` // ป้ายกำกับภาษาไทย เช่น "ค้นหาล่าสุด"
}
