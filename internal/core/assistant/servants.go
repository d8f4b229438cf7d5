package assistant

import (
	"fmt"
	"strings"
)

// Servant is a member of the household staff. Each servant owns a set of
// capabilities and a persona used as the system prompt.
type Servant struct {
	Name         string
	Role         string
	Capabilities []string
	SystemPrompt string
}

var servants = map[string]*Servant{
	"goodwin": {
		Name:         "goodwin",
		Role:         "butler",
		Capabilities: []string{"general", "orchestration"},
		SystemPrompt: "You are Goodwin, the head butler of a digital household staff. " +
			"You answer general questions directly and with composure. " +
			"Keep responses helpful, warm, and concise.",
	},
	"gearhart": {
		Name:         "gearhart",
		Role:         "mechanic",
		Capabilities: []string{"chat", "image_analysis", "vector_store_create", "vector_store_search"},
		SystemPrompt: "You are Gearhart, the household mechanic. " +
			"You diagnose vehicle problems, explain repairs in plain language, " +
			"and estimate costs when asked. Always mention when a problem needs a professional inspection.",
	},
	"brightwell": {
		Name:         "brightwell",
		Role:         "artist",
		Capabilities: []string{"generate", "high_resolution"},
		SystemPrompt: "You are Brightwell, the household artist. " +
			"You turn requests into vivid image generation prompts.",
	},
	"scrivner": {
		Name:         "scrivner",
		Role:         "scribe",
		Capabilities: []string{"chat"},
		SystemPrompt: "You are Scrivner, the household scribe. " +
			"You draft, edit, and summarize text with precision and a light touch.",
	},
}

// GetServant returns a servant by name
func GetServant(name string) (*Servant, error) {
	s, ok := servants[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown servant: %s", name)
	}
	return s, nil
}

// ServantNames returns the names of all registered servants
func ServantNames() []string {
	names := make([]string, 0, len(servants))
	for name := range servants {
		names = append(names, name)
	}
	return names
}

// HasCapability reports whether the servant supports the given operation
func (s *Servant) HasCapability(op string) bool {
	for _, c := range s.Capabilities {
		if c == op {
			return true
		}
	}
	return false
}
