// Package models contains shared data structures used across the application.
package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects how a destination is executed.
type Kind uint8

const (
	KindURL Kind = iota
	KindFile
	KindCommand
)

// UnsortedCategory is the category of destinations that have none.
const UnsortedCategory = "Unsorted"

var kindNames = [...]string{
	KindURL:     "url",
	KindFile:    "file",
	KindCommand: "command",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind parses a kind name. An empty name means KindURL.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "url":
		return KindURL, nil
	case "file":
		return KindFile, nil
	case "command", "cmd":
		return KindCommand, nil
	}
	return 0, fmt.Errorf("unknown destination kind %q", s)
}

// MarshalYAML writes the kind by name.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML reads a kind name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseKind(node.Value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Destination is a configured target a query can be routed to.
type Destination struct {
	ID       string `yaml:"id" cbor:"id"`
	Name     string `yaml:"name" cbor:"name"`
	Target   string `yaml:"target" cbor:"target"`
	Kind     Kind   `yaml:"kind" cbor:"kind"`
	Enabled  bool   `yaml:"enabled" cbor:"enabled"`
	Category string `yaml:"category,omitempty" cbor:"category,omitempty"`
	Icon     string `yaml:"icon,omitempty" cbor:"icon,omitempty"`
}

// CategoryName returns the destination's category, or UnsortedCategory.
func (d *Destination) CategoryName() string {
	if strings.TrimSpace(d.Category) == "" {
		return UnsortedCategory
	}
	return d.Category
}
