package domain

import (
	"bytes"
	"encoding/json"
)

// Fallback category levels used when nothing in the taxonomy matches
const (
	FallbackLevel1 = "Others"
	FallbackLevel2 = "General"
	FallbackLevel3 = "General Items"
)

// MaxTaxonomyDepth is the deepest path allowed from the taxonomy root
const MaxTaxonomyDepth = 5

// CategoryPath is a 3-level ONDC category assignment
type CategoryPath struct {
	Level1 string `json:"level_1"`
	Level2 string `json:"level_2"`
	Level3 string `json:"level_3"`
}

// FallbackCategoryPath returns the path used when no taxonomy node matches
func FallbackCategoryPath() CategoryPath {
	return CategoryPath{Level1: FallbackLevel1, Level2: FallbackLevel2, Level3: FallbackLevel3}
}

// CategoryResult is the output of a categorization call
type CategoryResult struct {
	Categories CategoryPath   `json:"categories"`
	Attributes map[string]any `json:"attributes"`
	Compliance []string       `json:"compliance"`
	Confidence float64        `json:"confidence"`
	Source     string         `json:"source"` // "llm", "keyword" or "cache"
}

// TaxonomyNode is one node of the category tree. Internal nodes have
// Children; leaf nodes have Items (level 4/5 item names). Order is the
// order of the source document.
type TaxonomyNode struct {
	Name     string
	Children []*TaxonomyNode
	Items    []string
}

// IsLeaf reports whether the node holds an item list rather than children
func (n *TaxonomyNode) IsLeaf() bool {
	return n.Items != nil
}

// TaxonomyTree is the ordered root of the category tree
type TaxonomyTree struct {
	Roots []*TaxonomyNode
}

// Empty reports whether the tree has no categories
func (t *TaxonomyTree) Empty() bool {
	return t == nil || len(t.Roots) == 0
}

// MarshalJSON writes the tree as nested objects, keeping document order.
func (t *TaxonomyTree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if t == nil {
		buf.WriteString("{}")
		return buf.Bytes(), nil
	}
	if err := writeNodes(&buf, t.Roots); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNodes(buf *bytes.Buffer, nodes []*TaxonomyNode) error {
	buf.WriteByte('{')
	for i, n := range nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n.Name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if n.IsLeaf() {
			items, err := json.Marshal(n.Items)
			if err != nil {
				return err
			}
			buf.Write(items)
			continue
		}
		if err := writeNodes(buf, n.Children); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
