package models

import (
	"time"
)

// StoreCategory is the fixed retail category taxonomy.
type StoreCategory string

// Store categories. The list is fixed; stores created through the admin
// panel can only carry one of these values.
const (
	CategoryFashion       StoreCategory = "Fashion"
	CategoryBeauty        StoreCategory = "Beauty"
	CategoryElectronics   StoreCategory = "Electronics"
	CategoryFood          StoreCategory = "Food & Beverage"
	CategorySports        StoreCategory = "Sports"
	CategoryBooks         StoreCategory = "Books"
	CategoryHome          StoreCategory = "Home & Garden"
	CategoryHealth        StoreCategory = "Health & Pharmacy"
	CategoryEntertainment StoreCategory = "Entertainment"
	CategoryServices      StoreCategory = "Services"
	CategorySupermarket   StoreCategory = "Supermarket"
	CategoryCinema        StoreCategory = "Cinema"
	CategoryBanking       StoreCategory = "Banking"
	CategoryJewelry       StoreCategory = "Jewelry"
	CategoryToys          StoreCategory = "Toys"
	CategoryMobile        StoreCategory = "Mobile & Gadgets"
	CategoryFurniture     StoreCategory = "Furniture"
	CategoryCafe          StoreCategory = "Cafe"
	CategoryFitness       StoreCategory = "Fitness"
	CategoryKids          StoreCategory = "Kids & Education"
)

// StoreCategories lists every valid category, in display order.
var StoreCategories = []StoreCategory{
	CategoryFashion, CategoryBeauty, CategoryElectronics, CategoryFood,
	CategorySports, CategoryBooks, CategoryHome, CategoryHealth,
	CategoryEntertainment, CategoryServices, CategorySupermarket,
	CategoryCinema, CategoryBanking, CategoryJewelry, CategoryToys,
	CategoryMobile, CategoryFurniture, CategoryCafe, CategoryFitness,
	CategoryKids,
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c StoreCategory) bool {
	for _, v := range StoreCategories {
		if v == c {
			return true
		}
	}
	return false
}

// StoreStatus is the operating state of a store.
type StoreStatus string

const (
	StatusActive      StoreStatus = "Active"
	StatusMaintenance StoreStatus = "Maintenance"
	StatusClosed      StoreStatus = "Closed"
)

// ValidStatus reports whether s is a known store status.
func ValidStatus(s StoreStatus) bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusClosed:
		return true
	}
	return false
}

// DenormalizedMallInfo is the mall/floor display data cached onto a store
// at write time so list views can render without extra reads. Its absence
// (nil) sends the resolver down the fetch path.
type DenormalizedMallInfo struct {
	MallName   string  `firestore:"mallName" json:"mall_name"`
	MallSlug   string  `firestore:"mallSlug,omitempty" json:"mall_slug,omitempty"`
	MallCoords *LatLng `firestore:"mallCoords,omitempty" json:"mall_coords,omitempty"`
	FloorLabel string  `firestore:"floorLabel,omitempty" json:"floor_label,omitempty"`
}

// Store represents a tenant business document.
// Firestore: malls/{mallId}/stores/{storeId}
type Store struct {
	ID             string                `firestore:"-" json:"id"`
	Name           string                `firestore:"name" json:"name"`
	NameNormalized string                `firestore:"name_normalized" json:"-"`
	Category       StoreCategory         `firestore:"category" json:"category"`
	MallID         string                `firestore:"-" json:"mall_id"`
	FloorID        string                `firestore:"floorId" json:"floor_id"`
	Unit           string                `firestore:"unit,omitempty" json:"unit,omitempty"` // "2-22"
	Phone          string                `firestore:"phone,omitempty" json:"phone,omitempty"`
	Hours          string                `firestore:"hours,omitempty" json:"hours,omitempty"` // "10:00-22:00"
	Status         StoreStatus           `firestore:"status" json:"status"`
	Location       *LatLng               `firestore:"location,omitempty" json:"location,omitempty"`
	Denormalized   *DenormalizedMallInfo `firestore:"denormalized,omitempty" json:"denormalized,omitempty"`
	Tags           []string              `firestore:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt      time.Time             `firestore:"createdAt" json:"created_at"`
	UpdatedAt      time.Time             `firestore:"updatedAt" json:"updated_at"`
}

// ResolvedStore is a store enriched with authoritative display context.
type ResolvedStore struct {
	Store      Store    `json:"store"`
	MallName   string   `json:"mall_name"`
	FloorLabel string   `json:"floor_label"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	CoordsUsed *LatLng  `json:"coords_used,omitempty"`
}
