package entity

import "github.com/google/uuid"

// Identity is the authenticated-user-or-anonymous context of a request.
// The zero value is anonymous.
type Identity struct {
	UserId uuid.UUID
}

func Anonymous() Identity {
	return Identity{}
}

func IdentityOf(userId uuid.UUID) Identity {
	return Identity{UserId: userId}
}

func (i Identity) IsAnonymous() bool {
	return i.UserId == uuid.Nil
}

func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return i.UserId.String()
}
