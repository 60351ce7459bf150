package chat

// Role tags a turn with its author kind in the provider wire format.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message within a session transcript. Turns are
// immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// WithoutSystem filters a transcript down to the turns shown to clients.
// System priming turns never leave the backend.
func WithoutSystem(turns []Turn) []Turn {
	visible := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role != RoleSystem {
			visible = append(visible, t)
		}
	}
	return visible
}
