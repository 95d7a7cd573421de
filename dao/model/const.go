// Constants mapped to database columns. Gin rejects zero values for fields
// tagged `required`, so the first constant of each type starts at iota + 1.
package model

// User role in the platform
type Role uint8

const (
	RoleGuest Role = iota + 1
	RoleUser
	RoleAdmin
)

// User status
type Status uint8

const (
	StatusPending  Status = iota + 1 // Pending status, not yet activated
	StatusActive                     // Active status
	StatusInactive                   // Inactive status
)
