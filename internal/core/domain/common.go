package domain

import "time"

// Timestamps holds the standard creation/update times maintained by the store.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
