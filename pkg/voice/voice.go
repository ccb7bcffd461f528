package voice

type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateListening  State = "listening"
	StateSpeaking   State = "speaking"
)

// Persona is the instruction handed to the realtime voice model.
const Persona = "You are a billionaire polymath mentor. You mastered Geomatics, Trading, and Cybersecurity. " +
	"You are the richest person in the world because you optimized your time perfectly. " +
	"You are talking to a student who wants to be like you. Be inspiring, strategic, a bit demanding but supportive. " +
	"Speak concisely and confidently."

const VoiceName = "Fenrir"

// Releaser frees one audio resource held by a session.
type Releaser struct {
	Name    string
	Release func()
}

type Session struct {
	State     State
	Persona   string
	VoiceName string
	Resources []string
}

// StopResult lists the resources released when a session ended.
type StopResult struct {
	Previous State
	Released []string
}
