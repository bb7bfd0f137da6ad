package session

// Identity is the authenticated user bound to a browser session.
type Identity struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// State is the session of a single browser, loaded at the start of a request and stored back, when changed, before
// the response headers are written.
type State struct {
	identity *Identity
	flashes  []string
	changed  bool
}

// Start binds the identity to the session, replacing any previous one.
func (s *State) Start(identity Identity) {
	s.identity = &identity
	s.changed = true
}

// End drops the identity, leaving pending notices in place.
func (s *State) End() {
	if s.identity != nil {
		s.identity = nil
		s.changed = true
	}
}

// Identity returns the authenticated user, if any.
func (s *State) Identity() (Identity, bool) {
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *State) Authenticated() bool {
	return s.identity != nil
}

// Flash queues a notice for the next rendered page.
func (s *State) Flash(message string) {
	s.flashes = append(s.flashes, message)
	s.changed = true
}

// PopFlashes returns and clears the pending notices.
func (s *State) PopFlashes() []string {
	var flashes = s.flashes
	if len(flashes) > 0 {
		s.flashes = nil
		s.changed = true
	}
	return flashes
}

func (s *State) Changed() bool {
	return s.changed
}

func (s *State) empty() bool {
	return s.identity == nil && len(s.flashes) == 0
}
