package auth

// Actor is the caller behind a request. The zero value is anonymous.
type Actor struct {
	ID   string
	Role string
}

// ActorFromClaims maps verified session claims to an Actor.
func ActorFromClaims(c Claims) Actor {
	return Actor{ID: c.Sub, Role: c.Role}
}

func (a Actor) Anonymous() bool {
	return a.ID == ""
}

// Is reports whether the actor is the account id of the given role.
func (a Actor) Is(role, id string) bool {
	return a.Role == role && a.ID == id
}
