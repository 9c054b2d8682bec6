// internal/domain/theme/entity.go
package theme

// DefaultDarkMode applies when nothing has been persisted yet.
const DefaultDarkMode = true

// State is the theme slice.
type State struct {
	DarkMode bool `json:"darkMode"`
}

// Default returns the initial theme state.
func Default() State {
	return State{DarkMode: DefaultDarkMode}
}

func (s *State) Toggle() {
	s.DarkMode = !s.DarkMode
}

func (s *State) Set(v bool) {
	s.DarkMode = v
}

// Name is "dark" or "light" (palette / renderer style name).
func (s State) Name() string {
	if s.DarkMode {
		return "dark"
	}
	return "light"
}
