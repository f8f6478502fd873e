package domain

// Account is a registered identity. Created only through a successful
// signup; records are replaced, never mutated in place.
type Account struct {
	Email       Email
	PassHash    string
	Requires2FA bool
}
