package model

import (
	"strconv"
	"strings"
)

// PropertyInput is the body of POST /properties and PUT /properties/:id.
// Zero numbers count as missing.
type PropertyInput struct {
	Title       string  `json:"title"       form:"title"       validate:"required,max=255"`
	Address     string  `json:"address"     form:"address"     validate:"required,max=512"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price"       form:"price"       validate:"required,gt=0"`
	Bedrooms    int     `json:"bedrooms"    form:"bedrooms"    validate:"required,gte=0"`
	Bathrooms   float64 `json:"bathrooms"   form:"bathrooms"   validate:"required,gte=0,halfstep"`
	Sqft        int     `json:"sqft"        form:"sqft"        validate:"required,gte=0"`
	Status      string  `json:"status"      form:"status"`
	ImageURL    *string `json:"image_url"   form:"image_url"   validate:"omitempty,max=2048"`
}

// Normalize trims text fields.
func (in *PropertyInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Address = strings.TrimSpace(in.Address)
	in.Status = strings.TrimSpace(in.Status)
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		in.Description = &trimmed
	}
	if in.ImageURL != nil {
		trimmed := strings.TrimSpace(*in.ImageURL)
		if trimmed == "" {
			in.ImageURL = nil
		} else {
			in.ImageURL = &trimmed
		}
	}
}

// Image is an uploaded cover image.
type Image struct {
	Data []byte
}

// UpdateStatusRequest is the body of PATCH /properties/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListFilter narrows GET /properties. Nil fields do not filter.
type ListFilter struct {
	Status      string   `form:"status"`
	MinPrice    *float64 `form:"min_price"    json:"min_price"    validate:"omitempty,gte=0"`
	MaxPrice    *float64 `form:"max_price"    json:"max_price"    validate:"omitempty,gte=0"`
	MinBedrooms *int     `form:"min_bedrooms" json:"min_bedrooms" validate:"omitempty,gte=0"`
	Search      string   `form:"q"`
}

// CacheParams flattens the filter for list cache keys.
func (f *ListFilter) CacheParams() map[string]string {
	params := map[string]string{}
	if f == nil {
		return params
	}
	if f.Status != "" {
		params["status"] = f.Status
	}
	if f.MinPrice != nil {
		params["min_price"] = strconv.FormatFloat(*f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice != nil {
		params["max_price"] = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}
	if f.MinBedrooms != nil {
		params["min_bedrooms"] = strconv.Itoa(*f.MinBedrooms)
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		params["q"] = search
	}
	return params
}
