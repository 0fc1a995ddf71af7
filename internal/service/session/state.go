package session

import "slices"

// State of one browser session: bound username and pending flash messages.
// Mutations are tracked so unchanged sessions are not rewritten.
type State struct {
	username string
	flashes  []string
	changed  bool
}

// Bind session to username
func (s *State) Establish(username string) {
	if s.username == username {
		return
	}
	s.username = username
	s.changed = true
}

func (s *State) CurrentUsername() (string, bool) {
	return s.username, s.username != ""
}

// End clears the binding, no-op if nothing is bound
func (s *State) End() {
	if s.username == "" {
		return
	}
	s.username = ""
	s.changed = true
}

// Queue one-shot message shown on the next rendered page
func (s *State) Flash(msg string) {
	s.flashes = append(s.flashes, msg)
	s.changed = true
}

// Flashes pops all queued messages
func (s *State) Flashes() []string {
	if len(s.flashes) == 0 {
		return nil
	}

	msgs := slices.Clone(s.flashes)
	s.flashes = nil
	s.changed = true

	return msgs
}

func (s *State) Changed() bool {
	return s.changed
}

func (s *State) empty() bool {
	return s.username == "" && len(s.flashes) == 0
}
