package usecase

import (
	"strings"

	"github.com/msmeconnect/backend/internal/domain"
)

// Keyword search weights
const (
	nodeMatchPoints = 10 // category name found in the description
	itemMatchPoints = 20 // leaf item name found in the description
)

// Confidence reported by the keyword search
const (
	keywordMatchConfidence   = 0.8
	keywordNoMatchConfidence = 0.5
)

// KeywordClassifier assigns a category path by substring search over the
// taxonomy tree. It never fails; with no match it returns the fallback path.
type KeywordClassifier struct {
	taxonomy domain.TaxonomyProvider
}

// NewKeywordClassifier creates a classifier over the given taxonomy
func NewKeywordClassifier(taxonomy domain.TaxonomyProvider) *KeywordClassifier {
	return &KeywordClassifier{taxonomy: taxonomy}
}

// keywordSearch holds the best path seen so far during one tree walk
type keywordSearch struct {
	description string
	maxScore    int
	best        []string
}

// Classify scores every leaf item path in document order and keeps the
// first highest-scoring one.
func (k *KeywordClassifier) Classify(description string, extractAttributes bool) *domain.CategoryResult {
	lowered := strings.ToLower(description)

	search := &keywordSearch{description: lowered}
	if k.taxonomy != nil {
		if tree := k.taxonomy.Tree(); !tree.Empty() {
			search.walk(tree.Roots, nil, 0)
		}
	}

	confidence := keywordNoMatchConfidence
	if search.maxScore > 0 {
		confidence = keywordMatchConfidence
	}

	attrs := map[string]any{}
	if extractAttributes {
		attrs["material"] = detectMaterial(lowered)
	}

	return &domain.CategoryResult{
		Categories: pathToCategories(search.best),
		Attributes: attrs,
		Compliance: []string{"GST"},
		Confidence: confidence,
		Source:     "keyword",
	}
}

func (s *keywordSearch) walk(nodes []*domain.TaxonomyNode, path []string, score int) {
	for _, n := range nodes {
		nodeScore := score
		if strings.Contains(s.description, strings.ToLower(n.Name)) {
			nodeScore += nodeMatchPoints
		}

		nodePath := make([]string, len(path)+1)
		copy(nodePath, path)
		nodePath[len(path)] = n.Name

		if !n.IsLeaf() {
			s.walk(n.Children, nodePath, nodeScore)
			continue
		}

		for _, item := range n.Items {
			itemScore := nodeScore
			if strings.Contains(s.description, strings.ToLower(item)) {
				itemScore += itemMatchPoints
			}
			if itemScore > s.maxScore {
				s.maxScore = itemScore
				s.best = nodePath
			}
		}
	}
}

// pathToCategories takes the first three names of path. Missing levels come
// from the fallback path, never from another match.
func pathToCategories(path []string) domain.CategoryPath {
	levels := [3]string{domain.FallbackLevel1, domain.FallbackLevel2, domain.FallbackLevel3}
	for i := 0; i < len(path) && i < len(levels); i++ {
		levels[i] = path[i]
	}
	return domain.CategoryPath{Level1: levels[0], Level2: levels[1], Level3: levels[2]}
}

func detectMaterial(lowered string) string {
	if strings.Contains(lowered, "wood") {
		return "wood"
	}
	return "unknown"
}
