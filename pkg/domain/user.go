package domain

import (
	"strconv"
	"time"
)

// UserID identifies a user. Any integer value is accepted, including zero and
// negative numbers; meaning is left to the storage backend.
type UserID int64

// String returns the decimal form of the ID.
func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseUserID parses a decimal user ID.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err //nolint: wrapcheck
	}

	return UserID(n), nil
}

// User is an application user.
type User struct {
	// ID is the identifier the user is stored under.
	ID UserID `json:"id"`
	// Name is the display name. It is what a lookup by ID returns.
	Name string `json:"name"`
	// Email is the contact address, if any.
	Email string `json:"email,omitempty"`

	// CreatedAt is set by the storage backend on first save.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is set by the storage backend on every subsequent save.
	UpdatedAt time.Time `json:"updatedAt"`
}
