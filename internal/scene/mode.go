package scene

import "errors"

// Mode is the interaction state of the input controller.
type Mode int

const (
	ModeNone Mode = iota
	ModeCamera
	ModePick
	ModeScale
	ModeRotate
	ModeTranslate
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeCamera:
		return "Camera"
	case ModePick:
		return "Pick"
	case ModeScale:
		return "Scale"
	case ModeRotate:
		return "Rotate"
	case ModeTranslate:
		return "Translate"
	}
	return "Unknown"
}

// Command is a side effect a key triggers besides changing mode.
type Command int

const (
	CommandNone Command = iota
	CommandSave
)

// ErrNoSelection is returned for a selection-dependent action with nothing selected.
var ErrNoSelection = errors.New("no item selected")

// Transition is one row of the key release table.
type Transition struct {
	Target         Mode
	Stay           bool // keep the current mode
	NeedsSelection bool
	Command        Command
}

// Transitions maps released keys to their effect.
var Transitions = map[Key]Transition{
	KeyEscape: {Target: ModeNone},
	KeyC:      {Target: ModeCamera},
	KeyG:      {Stay: true, Command: CommandSave},
	KeyP:      {Target: ModePick},
	KeyR:      {Target: ModeRotate, NeedsSelection: true},
	KeyS:      {Target: ModeScale, NeedsSelection: true},
	KeyT:      {Target: ModeTranslate, NeedsSelection: true},
}

// NextMode resolves a key release against the table. Keys not in the table
// leave the mode alone. A guarded transition with selected == 0 returns the
// current mode and ErrNoSelection.
func NextMode(current Mode, key Key, selected int) (Mode, Command, error) {
	tr, ok := Transitions[key]
	if !ok {
		return current, CommandNone, nil
	}
	if tr.NeedsSelection && selected <= 0 {
		return current, CommandNone, ErrNoSelection
	}
	if tr.Stay {
		return current, tr.Command, nil
	}
	return tr.Target, tr.Command, nil
}

// requiresSelection reports whether a mode only makes sense with a selected node.
func (m Mode) requiresSelection() bool {
	return m == ModeScale || m == ModeRotate || m == ModeTranslate
}
