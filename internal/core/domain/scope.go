package domain

// Scope tracks which pipeline new tasks attach to when built with InScope.
// Activations nest: leaving a scope restores the pipeline that was active
// when it was entered.
//
// A Scope is confined to the goroutine that uses it and must not be shared.
type Scope struct {
	active *Pipeline
	saved  []*Pipeline
}

// NewScope returns a scope with no active pipeline.
func NewScope() *Scope {
	return &Scope{}
}

// Active returns the active pipeline, or nil.
func (s *Scope) Active() *Pipeline {
	return s.active
}

// Enter makes p the active pipeline. The returned function restores the
// previous one; calling it more than once has no further effect.
// Exits must happen in reverse order of entry.
func (s *Scope) Enter(p *Pipeline) (exit func()) {
	s.saved = append(s.saved, s.active)
	s.active = p

	done := false
	return func() {
		if done {
			return
		}
		done = true
		last := len(s.saved) - 1
		s.active = s.saved[last]
		s.saved = s.saved[:last]
	}
}

// Within runs fn with p active. The previous pipeline is restored when fn
// returns, fails or panics.
func (s *Scope) Within(p *Pipeline, fn func() error) error {
	exit := s.Enter(p)
	defer exit()
	return fn()
}
