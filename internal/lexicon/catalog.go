package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a frequently repeated entry shape: one category plus a full tag set.
type Preset struct {
	Name       string
	CategoryID string
	TagIDs     []string
}

// Catalog groups the two lexicons with the presets built on them.
type Catalog struct {
	Categories *Lexicon
	Tags       *Lexicon
	Presets    []Preset
}

// Preset finds a preset by name.
func (c *Catalog) Preset(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

type presetDef struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
}

type fileDoc struct {
	Categories yaml.Node   `yaml:"categories"`
	Tags       yaml.Node   `yaml:"tags"`
	Presets    []presetDef `yaml:"presets"`
}

// LoadFile reads a lexicon YAML file. See Parse for the format.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a document of the form
//
//	categories:
//	  FoodDrinks: "45288150"
//	tags:
//	  Lunch: "18323682"
//	presets:
//	  - name: Lunch
//	    category: FoodDrinks
//	    tags: [Lunch]
//
// Mapping order is the display order. Omitted sections use the defaults; when
// presets are omitted the default presets are kept only if they still resolve.
func Parse(data []byte) (*Catalog, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	cats, err := orderedItems(&doc.Categories, defaultCategories)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	tags, err := orderedItems(&doc.Tags, defaultTags)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	if doc.Presets != nil {
		return build(cats, tags, doc.Presets)
	}
	c, err := build(cats, tags, nil)
	if err != nil {
		return nil, err
	}
	for _, def := range defaultPresets {
		if p, err := c.resolvePreset(def); err == nil {
			c.Presets = append(c.Presets, p)
		}
	}
	return c, nil
}

func orderedItems(n *yaml.Node, fallback []Item) ([]Item, error) {
	if n.Kind == 0 {
		return fallback, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of label to id", n.Line)
	}
	items := make([]Item, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: id for %q must be a scalar", v.Line, k.Value)
		}
		// v.Value is the source text, so 0123 stays 0123.
		items = append(items, Item{Label: k.Value, ID: v.Value})
	}
	return items, nil
}

func build(cats, tags []Item, presets []presetDef) (*Catalog, error) {
	cl, err := New(cats)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	tl, err := New(tags)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	c := &Catalog{Categories: cl, Tags: tl}
	seen := map[string]struct{}{}
	for _, def := range presets {
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", def.Name)
		}
		seen[def.Name] = struct{}{}
		p, err := c.resolvePreset(def)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", def.Name, err)
		}
		c.Presets = append(c.Presets, p)
	}
	return c, nil
}

func (c *Catalog) resolvePreset(def presetDef) (Preset, error) {
	if def.Name == "" {
		return Preset{}, fmt.Errorf("preset name is required")
	}
	catID, err := c.Categories.Lookup("category", def.Category)
	if err != nil {
		return Preset{}, err
	}
	p := Preset{Name: def.Name, CategoryID: catID}
	for _, t := range def.Tags {
		id, err := c.Tags.Lookup("tag", t)
		if err != nil {
			return Preset{}, err
		}
		p.TagIDs = append(p.TagIDs, id)
	}
	return p, nil
}
