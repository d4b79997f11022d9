package application

// Principal is the authenticated caller of a workflow. Handlers build it from
// the session and pass it explicitly; services never look it up themselves.
type Principal struct {
	UserID   string
	Username string
	Email    string
	IsStaff  bool
}

func requireStaff(p *Principal) error {
	if p == nil || p.UserID == "" {
		return ErrUnauthenticated
	}
	if !p.IsStaff {
		return ErrForbidden
	}
	return nil
}

func requireUser(p *Principal) error {
	if p == nil || p.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}
