package types

// Tool describes one callable unit of work exposed to the model.
// The descriptor is declared statically at registration time; the
// dispatcher never reflects over handler signatures.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns,omitempty"`
}

// Parameter describes a declared tool parameter.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// HasParameter reports whether the tool declares a parameter with the
// given name.
func (t Tool) HasParameter(name string) bool {
	for _, p := range t.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}
