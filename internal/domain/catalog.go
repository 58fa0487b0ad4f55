package domain

import "math"

type Hotel struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Rating        float64  `json:"rating"` // 0..5
	PricePerNight float64  `json:"pricePerNight"`
	Tags          []string `json:"tags"`
	Badge         *string  `json:"badge"`
	Description   string   `json:"description"`
}

// Location renders "City, Country" for confirmation views.
func (h Hotel) Location() string { return h.City + ", " + h.Country }

type RoomType string

const (
	RoomStandard     RoomType = "Standard"
	RoomDeluxe       RoomType = "Deluxe"
	RoomSuite        RoomType = "Suite"
	RoomVIPSuite     RoomType = "VIP Suite"
	RoomPresidential RoomType = "Presidential"
)

// RoomTier describes how one room type is generated for every hotel.
type RoomTier struct {
	Type       RoomType
	Multiplier float64
	Capacity   int
	Count      int
	Amenities  []string
}

// RoomTiers is ordered; the index is part of the generated room number.
var RoomTiers = []RoomTier{
	{RoomStandard, 1, 2, 4, []string{"WiFi", "TV", "AC"}},
	{RoomDeluxe, 1.3, 2, 4, []string{"WiFi", "TV", "AC", "Mini Bar", "City View"}},
	{RoomSuite, 1.8, 3, 3, []string{"WiFi", "TV", "AC", "Mini Bar", "Ocean View", "Balcony", "Sitting Area"}},
	{RoomVIPSuite, 2.5, 4, 2, []string{"WiFi", "TV", "AC", "Mini Bar", "Ocean View", "Balcony", "Jacuzzi", "Butler Service"}},
	{RoomPresidential, 4, 6, 1, []string{"WiFi", "TV", "AC", "Mini Bar", "Ocean View", "Balcony", "Jacuzzi", "Butler Service", "Private Pool", "Dining Room"}},
}

// TierPrice is the nightly price of a tier for a hotel's base price.
func TierPrice(base, multiplier float64) float64 { return math.Round(base * multiplier) }

type Room struct {
	ID         int64    `json:"id"`
	HotelID    int64    `json:"hotelId"`
	RoomNumber string   `json:"roomNumber"`
	Type       RoomType `json:"type"`
	Price      float64  `json:"price"`
	Capacity   int      `json:"capacity"`
	Amenities  []string `json:"amenities"`
	Available  bool     `json:"available"`
}

type Restaurant struct {
	ID          int64  `json:"id"`
	HotelID     int64  `json:"hotelId"`
	Name        string `json:"name"`
	Cuisine     string `json:"cuisine"`
	Hours       string `json:"hours"`
	Description string `json:"description"`
}

type TableCategory string

const (
	TableVIP      TableCategory = "VIP"
	TableStandard TableCategory = "Standard"
	TableRomantic TableCategory = "Romantic"
	TableFamily   TableCategory = "Family"
	TableParty    TableCategory = "Party"
)

type TableTier struct {
	Category   TableCategory
	Count      int
	Capacity   int
	PriceExtra float64
}

var TableTiers = []TableTier{
	{TableVIP, 4, 6, 75},
	{TableStandard, 6, 4, 0},
	{TableRomantic, 6, 2, 25},
	{TableFamily, 6, 6, 0},
	{TableParty, 4, 8, 50},
}

const TableAvailable = "available"

type Table struct {
	ID           int64         `json:"id"`
	RestaurantID int64         `json:"restaurantId"`
	Label        string        `json:"label"`
	Capacity     int           `json:"capacity"`
	PriceExtra   float64       `json:"priceExtra"`
	Category     TableCategory `json:"category"`
	Status       string        `json:"status"`
}

// HotelsQuery filters the hotel list; nil fields are ignored.
type HotelsQuery struct {
	City      *string
	MinRating *float64
	MaxPrice  *float64
}
