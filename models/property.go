package models

import (
	"time"
)

type PropertyStatus string

const (
	PropertyDraft     PropertyStatus = "draft"
	PropertyPublished PropertyStatus = "published"
)

func (s PropertyStatus) Valid() bool {
	return s == PropertyDraft || s == PropertyPublished
}

type Property struct {
	ID           string         `bson:"_id" json:"id"`
	OwnerID      string         `bson:"ownerId" json:"ownerId"`
	Title        string         `bson:"title" json:"title"`
	Description  string         `bson:"description" json:"description"`
	Price        float64        `bson:"price" json:"price"`
	Location     string         `bson:"location" json:"location"`
	Images       []string       `bson:"images" json:"images"`
	MaxGuests    int            `bson:"maxGuests" json:"maxGuests"`
	Bedrooms     int            `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int            `bson:"bathrooms" json:"bathrooms"`
	PropertyType string         `bson:"propertyType" json:"propertyType"`
	Amenities    []string       `bson:"amenities" json:"amenities"`
	Status       PropertyStatus `bson:"status" json:"status"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
}

// PropertyInput is the owner-editable part of a Property.
type PropertyInput struct {
	Title        string   `json:"title" validate:"required,min=3"`
	Description  string   `json:"description" validate:"required,min=10"`
	Price        float64  `json:"price" validate:"gte=0"`
	Location     string   `json:"location" validate:"required,min=3"`
	Images       []string `json:"images" validate:"required,min=1,dive,required"`
	MaxGuests    int      `json:"maxGuests" validate:"required,min=1,max=20"`
	Bedrooms     int      `json:"bedrooms" validate:"required,min=1"`
	Bathrooms    int      `json:"bathrooms" validate:"required,min=1"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=house apartment cabin villa other"`
	Amenities    []string `json:"amenities" validate:"omitempty,dive,required"`
	Status       string   `json:"status" validate:"omitempty,oneof=draft published"`
}

// ToProperty builds a Property owned by ownerID. An empty status means draft.
func (in PropertyInput) ToProperty(ownerID string) Property {
	status := PropertyStatus(in.Status)
	if status == "" {
		status = PropertyDraft
	}
	amenities := in.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return Property{
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Location:     in.Location,
		Images:       in.Images,
		MaxGuests:    in.MaxGuests,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		PropertyType: in.PropertyType,
		Amenities:    amenities,
		Status:       status,
	}
}

// PropertyFilter narrows the public catalog. Zero values are ignored.
type PropertyFilter struct {
	Location     string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Guests       int
	Limit        int
}

// PropertySummary is the slice of a Property shown next to a booking.
type PropertySummary struct {
	ID       string `bson:"_id" json:"id"`
	Title    string `bson:"title" json:"title"`
	Location string `bson:"location" json:"location"`
	OwnerID  string `bson:"ownerId" json:"ownerId"`
}
