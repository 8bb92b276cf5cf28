package services

import "github.com/rekrut-id/apiserver/types"

// Identity is the user a request was authenticated as, or nobody.
// The zero value is anonymous.
type Identity struct {
	user *types.User
}

// Anonymous returns an identity with no user attached.
func Anonymous() Identity {
	return Identity{}
}

// AuthenticatedAs returns an identity for user.
func AuthenticatedAs(user types.User) Identity {
	return Identity{user: &user}
}

// User returns the authenticated user and true, or false when anonymous.
func (i Identity) User() (types.User, bool) {
	if i.user == nil {
		return types.User{}, false
	}
	return *i.user, true
}

func (i Identity) IsAuthenticated() bool {
	return i.user != nil
}
