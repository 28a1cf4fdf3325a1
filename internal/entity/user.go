package entity

// User is keyed by its (case-insensitive) email address.
type User struct {
	Email          EmailAddress
	EmailConfirmed bool
	Password       Password
	Role           Role
}
