package shared

import (
	"fmt"

	"hotel_reservation/internal/domain"
)

func badge(s string) *string { return &s }

var HotelTemplates = []domain.Hotel{
	{ID: 1, Name: "Grand Luxury Resort", City: "Paris", Country: "France", Rating: 4.8, PricePerNight: 299,
		Tags: []string{"Luxury", "Spa", "Pool"}, Badge: badge("Top Pick"),
		Description: "Experience world-class luxury in the heart of Paris with stunning city views and exceptional service."},
	{ID: 2, Name: "Oceanview Beach Hotel", City: "Barcelona", Country: "Spain", Rating: 4.6, PricePerNight: 189,
		Tags:        []string{"Beach", "Family", "Restaurant"},
		Description: "Stunning ocean views and family-friendly amenities right on the Mediterranean coast."},
	{ID: 3, Name: "Mountain Retreat Lodge", City: "Switzerland", Country: "Switzerland", Rating: 4.9, PricePerNight: 349,
		Tags: []string{"Mountain", "Ski", "Wellness"}, Badge: badge("Top Pick"),
		Description: "Escape to the mountains for ultimate relaxation with breathtaking alpine views."},
	{ID: 4, Name: "Tropical Paradise Resort", City: "Bali", Country: "Indonesia", Rating: 4.7, PricePerNight: 159,
		Tags: []string{"Tropical", "Beach", "Spa"}, Badge: badge("Best Seller"),
		Description: "Lush tropical gardens, infinity pools, and pristine beaches await you in paradise."},
	{ID: 5, Name: "Urban Boutique Hotel", City: "New York", Country: "USA", Rating: 4.5, PricePerNight: 249,
		Tags:        []string{"City", "Boutique", "Art"},
		Description: "Chic design hotel in the heart of Manhattan with contemporary art and modern amenities."},
	{ID: 6, Name: "Desert Oasis Resort", City: "Dubai", Country: "UAE", Rating: 4.8, PricePerNight: 399,
		Tags: []string{"Luxury", "Desert", "Spa"}, Badge: badge("Top Pick"),
		Description: "Ultra-luxury desert resort with world-class spa facilities and stunning architecture."},
	{ID: 7, Name: "Coastal Villa Collection", City: "Santorini", Country: "Greece", Rating: 4.9, PricePerNight: 279,
		Tags: []string{"Beach", "Romantic", "Villa"}, Badge: badge("Best Seller"),
		Description: "Stunning white-washed villas with panoramic sea views and private terraces."},
	{ID: 8, Name: "Historic Grand Hotel", City: "Vienna", Country: "Austria", Rating: 4.6, PricePerNight: 229,
		Tags:        []string{"Historic", "Luxury", "Culture"},
		Description: "Elegant 19th-century architecture meets modern luxury in the heart of Vienna."},
	{ID: 9, Name: "Jungle Eco Lodge", City: "Costa Rica", Country: "Costa Rica", Rating: 4.7, PricePerNight: 179,
		Tags:        []string{"Eco", "Nature", "Adventure"},
		Description: "Sustainable luxury in the heart of the rainforest with wildlife viewing and adventure activities."},
	{ID: 10, Name: "Island Resort & Spa", City: "Maldives", Country: "Maldives", Rating: 4.9, PricePerNight: 449,
		Tags: []string{"Island", "Luxury", "Overwater"}, Badge: badge("Top Pick"),
		Description: "Exclusive overwater villas with direct lagoon access and world-renowned diving."},
}

var RestaurantTemplates = []domain.Restaurant{
	{ID: 1, HotelID: 1, Name: "Le Grand Restaurant", Hours: "6:00 PM - 11:00 PM", Cuisine: "French Fine Dining",
		Description: "Award-winning French cuisine in an elegant setting with panoramic city views."},
	{ID: 2, HotelID: 2, Name: "Beachside Bistro", Hours: "12:00 PM - 10:00 PM", Cuisine: "Mediterranean",
		Description: "Fresh Mediterranean flavors with stunning ocean views and al fresco dining."},
	{ID: 3, HotelID: 3, Name: "Alpine Dining", Hours: "7:00 PM - 10:00 PM", Cuisine: "Swiss Alpine",
		Description: "Traditional Swiss cuisine with modern twists in a cozy mountain atmosphere."},
	{ID: 4, HotelID: 4, Name: "Tropical Garden Restaurant", Hours: "6:00 PM - 11:00 PM", Cuisine: "Asian Fusion",
		Description: "Exotic flavors in a beautiful garden setting surrounded by tropical flora."},
	{ID: 5, HotelID: 5, Name: "Manhattan Grill", Hours: "5:00 PM - 11:00 PM", Cuisine: "American Steakhouse",
		Description: "Premium steaks and classic American fare in a sophisticated urban setting."},
}

// Catalog is the full static data set after room and table expansion.
type Catalog struct {
	Hotels      []domain.Hotel
	Rooms       []domain.Room
	Restaurants []domain.Restaurant
	Tables      []domain.Table
}

// BuildCatalog expands the templates deterministically: the same input always yields the same ids.
func BuildCatalog() Catalog {
	c := Catalog{
		Hotels:      append([]domain.Hotel(nil), HotelTemplates...),
		Restaurants: append([]domain.Restaurant(nil), RestaurantTemplates...),
	}
	for _, h := range c.Hotels {
		c.Rooms = append(c.Rooms, RoomsFor(h)...)
	}
	for _, r := range c.Restaurants {
		c.Tables = append(c.Tables, TablesFor(r)...)
	}
	return c
}

func RoomsFor(h domain.Hotel) []domain.Room {
	var out []domain.Room
	id := h.ID * 100
	for idx, tier := range domain.RoomTiers {
		for i := 0; i < tier.Count; i++ {
			out = append(out, domain.Room{
				ID:         id,
				HotelID:    h.ID,
				RoomNumber: fmt.Sprintf("%d%02d%d", h.ID, idx+1, i+1),
				Type:       tier.Type,
				Price:      domain.TierPrice(h.PricePerNight, tier.Multiplier),
				Capacity:   tier.Capacity,
				Amenities:  tier.Amenities,
				Available:  true,
			})
			id++
		}
	}
	return out
}

func TablesFor(r domain.Restaurant) []domain.Table {
	var out []domain.Table
	id := r.ID * 100
	for _, tier := range domain.TableTiers {
		for i := 1; i <= tier.Count; i++ {
			out = append(out, domain.Table{
				ID:           id,
				RestaurantID: r.ID,
				Label:        fmt.Sprintf("%s Table %d", tier.Category, i),
				Capacity:     tier.Capacity,
				PriceExtra:   tier.PriceExtra,
				Category:     tier.Category,
				Status:       domain.TableAvailable,
			})
			id++
		}
	}
	return out
}
