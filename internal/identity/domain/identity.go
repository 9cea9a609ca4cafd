package domain

// Identity is the claim set attached to a connection for its whole lifetime.
// It is derived once from the verified credential and never mutated.
type Identity struct {
	Username      string
	Email         string
	EmailVerified bool
	DisplayName   string
}
