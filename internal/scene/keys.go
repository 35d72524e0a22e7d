package scene

// Key identifies a keyboard key the scene reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyC
	KeyG
	KeyP
	KeyR
	KeyS
	KeyT
	KeyX
	KeyY
	KeyZ
)

type Action int

const (
	Release Action = iota
	Press
	Repeat
)

type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// KeyState tracks which keys are held down.
type KeyState struct {
	held map[Key]bool
}

func NewKeyState() *KeyState {
	return &KeyState{held: make(map[Key]bool)}
}

func (k *KeyState) Press(key Key) {
	k.held[key] = true
}

func (k *KeyState) Release(key Key) {
	delete(k.held, key)
}

func (k *KeyState) Held(key Key) bool {
	return k.held[key]
}

// AxisLock reports the single axis selected by a held X, Y or Z key.
// X wins over Y, Y over Z.
func (k *KeyState) AxisLock() (Axis, bool) {
	switch {
	case k.held[KeyX]:
		return AxisX, true
	case k.held[KeyY]:
		return AxisY, true
	case k.held[KeyZ]:
		return AxisZ, true
	}
	return 0, false
}

func (k *KeyState) Clear() {
	k.held = make(map[Key]bool)
}
