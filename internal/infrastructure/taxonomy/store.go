package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// rootKey is the top-level key holding the category tree
const rootKey = "categories"

var errCorrupt = errors.New("corrupt taxonomy")

// Store holds the category tree loaded at startup. It is read-only after
// construction and safe for concurrent use.
type Store struct {
	tree *domain.TaxonomyTree
}

// NewStore loads the taxonomy at path. A missing, unreadable or corrupt
// source yields an empty tree and a warning; it never fails.
func NewStore(path string) *Store {
	log := logrus.WithFields(logrus.Fields{"component": "taxonomy", "path": path})

	tree, err := Load(path)
	if err != nil {
		log.WithError(err).Warn("taxonomy unavailable, keyword categorization will use fallback categories")
		return &Store{tree: &domain.TaxonomyTree{}}
	}

	log.WithField("top_level", len(tree.Roots)).Info("taxonomy loaded")
	return &Store{tree: tree}
}

// NewStoreFromTree wraps an already built tree
func NewStoreFromTree(tree *domain.TaxonomyTree) *Store {
	if tree == nil {
		tree = &domain.TaxonomyTree{}
	}
	return &Store{tree: tree}
}

// Load reads and parses a JSON or YAML taxonomy file
func Load(path string) (*domain.TaxonomyTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(data)
}

// Parse decodes a taxonomy document. JSON is accepted as a subset of YAML;
// decoding goes through yaml.Node so that key order is kept.
func Parse(data []byte) (*domain.TaxonomyTree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", errCorrupt)
	}

	top := resolve(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: document is not an object", errCorrupt)
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != rootKey {
			continue
		}
		categories := resolve(top.Content[i+1])
		if categories.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: %q is not an object", errCorrupt, rootKey)
		}
		roots, err := decodeMapping(categories, 1)
		if err != nil {
			return nil, err
		}
		return &domain.TaxonomyTree{Roots: roots}, nil
	}

	return nil, fmt.Errorf("%w: missing %q key", errCorrupt, rootKey)
}

// decodeMapping turns a mapping at the given level into ordered nodes
func decodeMapping(m *yaml.Node, level int) ([]*domain.TaxonomyNode, error) {
	if level > domain.MaxTaxonomyDepth {
		return nil, fmt.Errorf("%w: deeper than %d levels", errCorrupt, domain.MaxTaxonomyDepth)
	}

	nodes := make([]*domain.TaxonomyNode, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], resolve(m.Content[i+1])
		name := strings.TrimSpace(key.Value)
		if key.Kind != yaml.ScalarNode || name == "" {
			continue
		}

		node := &domain.TaxonomyNode{Name: name}
		switch val.Kind {
		case yaml.MappingNode:
			children, err := decodeMapping(val, level+1)
			if err != nil {
				return nil, err
			}
			node.Children = children
		case yaml.SequenceNode:
			if level+1 > domain.MaxTaxonomyDepth {
				return nil, fmt.Errorf("%w: items of %q deeper than %d levels", errCorrupt, name, domain.MaxTaxonomyDepth)
			}
			items, err := decodeItems(val, name)
			if err != nil {
				return nil, err
			}
			node.Items = items
		default:
			logrus.WithFields(logrus.Fields{"component": "taxonomy", "node": name, "level": level}).
				Warn("skipping taxonomy node that is neither an object nor a list")
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeItems(seq *yaml.Node, parent string) ([]string, error) {
	items := make([]string, 0, len(seq.Content))
	for _, n := range seq.Content {
		n = resolve(n)
		if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
			return nil, fmt.Errorf("%w: non-string item under %q", errCorrupt, parent)
		}
		if item := strings.TrimSpace(n.Value); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// Tree returns the full category tree. Callers must not modify it.
func (s *Store) Tree() *domain.TaxonomyTree {
	return s.tree
}

// Subtree returns the tree truncated to the given depth. Level 1 lists the
// top-level category names only. Levels outside 1..4 return the full tree.
func (s *Store) Subtree(level int) *domain.TaxonomyTree {
	if level <= 0 || level >= domain.MaxTaxonomyDepth {
		return s.tree
	}
	return &domain.TaxonomyTree{Roots: truncate(s.tree.Roots, 1, level)}
}

func truncate(nodes []*domain.TaxonomyNode, depth, limit int) []*domain.TaxonomyNode {
	out := make([]*domain.TaxonomyNode, 0, len(nodes))
	for _, n := range nodes {
		c := &domain.TaxonomyNode{Name: n.Name}
		if depth < limit {
			if n.IsLeaf() {
				c.Items = append([]string{}, n.Items...)
			} else {
				c.Children = truncate(n.Children, depth+1, limit)
			}
		}
		out = append(out, c)
	}
	return out
}
