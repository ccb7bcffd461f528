package strategy

// Path is one recommended career direction built on overlapping skills.
type Path struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Synergies   []string `json:"synergies"`
	ActionItems []string `json:"actionItems"`
}
