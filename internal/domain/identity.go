package domain

type IdentityKind int

const (
	IdentityNone IdentityKind = iota
	IdentityUser
	IdentitySession
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityUser:
		return "user"
	case IdentitySession:
		return "session"
	default:
		return "none"
	}
}

// Identity describes who is asking for a cart. A user identity may still carry
// the session token of the request so the resolved cart can be bound to it.
type Identity struct {
	Kind         IdentityKind
	UserID       string
	SessionToken string
}

func AuthenticatedUser(userID, sessionToken string) Identity {
	return Identity{Kind: IdentityUser, UserID: userID, SessionToken: sessionToken}
}

func AnonymousSession(sessionToken string) Identity {
	return Identity{Kind: IdentitySession, SessionToken: sessionToken}
}

func NoIdentity() Identity {
	return Identity{Kind: IdentityNone}
}
