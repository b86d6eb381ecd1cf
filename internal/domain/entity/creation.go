package entity

import (
	"errors"
	"time"
)

type Creation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Price       *float64  `json:"price,omitempty"`
	Color       string    `json:"color,omitempty"`
	Rank        int       `json:"rank"`
	Reserved    bool      `json:"reserved"`
	Sold        bool      `json:"sold"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCreation(title, description, color string, price *float64, rank int, images []string) (*Creation, error) {
	if title == "" {
		return nil, errors.New("creation title cannot be empty")
	}
	if price != nil && *price < 0 {
		return nil, errors.New("creation price cannot be negative")
	}
	if images == nil {
		images = make([]string, 0)
	}
	return &Creation{
		Title:       title,
		Description: description,
		Images:      images,
		Price:       price,
		Color:       color,
		Rank:        rank,
		Reserved:    false,
		Sold:        false,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsAvailable reports whether the creation can still accept a claim.
func (c *Creation) IsAvailable() bool {
	return !c.Reserved && !c.Sold
}
