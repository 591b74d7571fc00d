package entity

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type (
	// Persona is a selectable assistant identity loaded from a YAML card.
	Persona struct {
		Name        string   `mapstructure:"name"`
		Description string   `mapstructure:"description"`
		System      string   `mapstructure:"system"`
		Greeting    string   `mapstructure:"greeting"`
		Style       []string `mapstructure:"style"`
	}
)

// DefaultPersona is used when no card is supplied.
var DefaultPersona = Persona{
	Name:        "Aithena",
	Description: "A private, offline-capable assistant that remembers what you tell it.",
	System:      "You are Aithena, a helpful local assistant. Answer concisely and truthfully. When memories are provided, prefer them over guessing.",
	Greeting:    "Hi! I'm Aithena. Everything you tell me stays on this machine.",
}

// LoadPersona reads a persona card from a YAML file. Unknown keys are
// tolerated so cards written for newer versions still load.
func LoadPersona(path string) (*Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read persona card: %s", path)
	}
	return ParsePersona(raw)
}

// ParsePersona decodes a persona card from YAML bytes.
func ParsePersona(raw []byte) (*Persona, error) {
	var card map[string]any
	if err := yaml.Unmarshal(raw, &card); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal persona card")
	}

	persona := DefaultPersona
	if err := mapstructure.Decode(card, &persona); err != nil {
		return nil, errors.Wrapf(err, "failed to decode persona card")
	}
	if persona.Name == "" {
		return nil, errors.New("persona card requires a name")
	}

	return &persona, nil
}
