package entities

import (
	"strings"
)

// Variable is one core option key and its current value.
type Variable struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// OptionValue is one selectable value of a core option.
type OptionValue struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// OptionCategory groups v2 core options.
type OptionCategory struct {
	Key  string `json:"key"`
	Desc string `json:"desc"`
	Info string `json:"info,omitempty"`
}

// OptionDefinition describes a core option in the v2 shape. Older shapes
// (SET_VARIABLES, v1 definitions) are normalized into it.
type OptionDefinition struct {
	Key             string        `json:"key" validate:"required"`
	Desc            string        `json:"desc"`
	DescCategorized string        `json:"desc_categorized,omitempty"`
	Info            string        `json:"info,omitempty"`
	InfoCategorized string        `json:"info_categorized,omitempty"`
	Category        string        `json:"category,omitempty"`
	Values          []OptionValue `json:"values" validate:"min=1"`
	Default         string        `json:"default,omitempty"`
}

// DefaultValue returns Default when it names one of Values, else the first
// value.
func (d *OptionDefinition) DefaultValue() string {
	for _, v := range d.Values {
		if v.Value == d.Default {
			return d.Default
		}
	}
	if len(d.Values) > 0 {
		return d.Values[0].Value
	}
	return ""
}

// Allows reports whether value is one of the option's values.
func (d *OptionDefinition) Allows(value string) bool {
	for _, v := range d.Values {
		if v.Value == value {
			return true
		}
	}
	return false
}

// ParseLegacyVariable parses a SET_VARIABLES entry whose value has the form
// "Description; first|second|third". The first listed value is the default.
func ParseLegacyVariable(key, spec string) (OptionDefinition, bool) {
	desc, values, ok := strings.Cut(spec, "; ")
	if !ok || key == "" {
		return OptionDefinition{}, false
	}
	def := OptionDefinition{Key: key, Desc: desc}
	for _, v := range strings.Split(values, "|") {
		if v == "" {
			continue
		}
		def.Values = append(def.Values, OptionValue{Value: v})
	}
	if len(def.Values) == 0 {
		return OptionDefinition{}, false
	}
	def.Default = def.Values[0].Value
	return def, true
}
