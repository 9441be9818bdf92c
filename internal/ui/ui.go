package ui

// UI receives ritual progress for display. The TUI implements it; the
// server and plain CLI run silent.
type UI interface {
	UpdatePhase(phase string)
	UpdateLevel(level int, name string)
	Log(msg string)
}

type SilentUI struct{}

func (s SilentUI) UpdatePhase(phase string)           {}
func (s SilentUI) UpdateLevel(level int, name string) {}
func (s SilentUI) Log(msg string)                     {}
