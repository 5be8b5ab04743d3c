package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known feature categories, in display order.
const (
	FeatureSafety        = "safety"
	FeatureTechnology    = "technology"
	FeatureComfort       = "comfort"
	FeatureEntertainment = "entertainment"
	// FeatureGeneral holds features supplied as a flat, uncategorized list.
	FeatureGeneral = "general"
)

// FeatureCategories is the fixed order known categories are listed in.
var FeatureCategories = []string{FeatureSafety, FeatureTechnology, FeatureComfort, FeatureEntertainment}

// Features maps a category to its ordered feature list. Source data may
// provide either a flat list or a category-keyed map; both decode into this
// single shape. A missing category reads as an empty list.
type Features struct {
	order []string
	items map[string][]string
}

// NewFeatures builds a Features value from a category map.
func NewFeatures(byCategory map[string][]string) Features {
	keys := make([]string, 0, len(byCategory))
	for c := range byCategory {
		keys = append(keys, c)
	}
	slices.Sort(keys)
	var f Features
	for _, c := range keys {
		f.add(c, byCategory[c])
	}
	f.reorder()
	return f
}

// FeatureList builds a Features value from an uncategorized list.
func FeatureList(items ...string) Features {
	var f Features
	f.add(FeatureGeneral, items)
	return f
}

func (f *Features) known(c string) bool {
	_, ok := f.items[c]
	return ok
}

func (f *Features) add(category string, list []string) {
	category = strings.ToLower(strings.TrimSpace(category))
	if f.items == nil {
		f.items = make(map[string][]string)
	}
	if _, ok := f.items[category]; !ok {
		f.order = append(f.order, category)
	}
	f.items[category] = append(f.items[category], list...)
}

// Get returns the features of a category, or nil.
func (f Features) Get(category string) []string {
	return f.items[strings.ToLower(category)]
}

// Categories lists the populated categories in display order.
func (f Features) Categories() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// All flattens every category, in category order.
func (f Features) All() []string {
	var out []string
	for _, c := range f.order {
		out = append(out, f.items[c]...)
	}
	return out
}

// Len is the total number of features.
func (f Features) Len() int {
	n := 0
	for _, list := range f.items {
		n += len(list)
	}
	return n
}

// Has reports whether any feature contains name, ignoring case.
func (f Features) Has(name string) bool {
	needle := strings.ToLower(name)
	for _, list := range f.items {
		for _, item := range list {
			if strings.Contains(strings.ToLower(item), needle) {
				return true
			}
		}
	}
	return false
}

// UnmarshalYAML accepts a sequence (uncategorized) or a mapping of category
// to sequence.
func (f *Features) UnmarshalYAML(node *yaml.Node) error {
	*f = Features{}
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("features: %w", err)
		}
		f.add(FeatureGeneral, list)
	case yaml.MappingNode:
		// Walk pairs directly so source order is kept for extra categories.
		for i := 0; i+1 < len(node.Content); i += 2 {
			var list []string
			if err := node.Content[i+1].Decode(&list); err != nil {
				return fmt.Errorf("features %q: %w", node.Content[i].Value, err)
			}
			f.add(node.Content[i].Value, list)
		}
		f.reorder()
	case 0:
	default:
		if node.Tag != "!!null" {
			return fmt.Errorf("features: unexpected yaml node kind %d at line %d", node.Kind, node.Line)
		}
	}
	return nil
}

// reorder moves the well-known categories to the front.
func (f *Features) reorder() {
	order := make([]string, 0, len(f.order))
	for _, c := range FeatureCategories {
		if f.known(c) {
			order = append(order, c)
		}
	}
	for _, c := range f.order {
		if !isKnownCategory(c) {
			order = append(order, c)
		}
	}
	f.order = order
}

// MarshalJSON renders the category map.
func (f Features) MarshalJSON() ([]byte, error) {
	if f.items == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.items)
}

// UnmarshalJSON accepts the same two shapes as UnmarshalYAML.
func (f *Features) UnmarshalJSON(data []byte) error {
	*f = Features{}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		f.add(FeatureGeneral, list)
		return nil
	}
	var byCategory map[string][]string
	if err := json.Unmarshal(data, &byCategory); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	*f = NewFeatures(byCategory)
	return nil
}

func isKnownCategory(c string) bool {
	return slices.Contains(FeatureCategories, c)
}
