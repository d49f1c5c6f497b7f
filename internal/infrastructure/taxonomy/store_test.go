package taxonomy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "categories": {
    "Handicrafts": {
      "Toys": {
        "Wooden Toys": ["toy", "puzzle"]
      },
      "Pottery": ["terracotta"]
    },
    "Agriculture": {
      "Spices": {
        "Whole Spices": ["cardamom"]
      }
    }
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_PreservesDocumentOrder(t *testing.T) {
	tree, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)
	require.Len(t, tree.Roots, 2)

	assert.Equal(t, "Handicrafts", tree.Roots[0].Name)
	assert.Equal(t, "Agriculture", tree.Roots[1].Name)

	handicrafts := tree.Roots[0]
	require.Len(t, handicrafts.Children, 2)
	assert.Equal(t, "Toys", handicrafts.Children[0].Name)
	assert.Equal(t, "Pottery", handicrafts.Children[1].Name)
	assert.True(t, handicrafts.Children[1].IsLeaf())
	assert.Equal(t, []string{"terracotta"}, handicrafts.Children[1].Items)

	wooden := handicrafts.Children[0].Children[0]
	assert.Equal(t, "Wooden Toys", wooden.Name)
	assert.Equal(t, []string{"toy", "puzzle"}, wooden.Items)
}

func TestParse_YAML(t *testing.T) {
	doc := `
categories:
  Textiles:
    Handloom:
      Sarees: [saree, banarasi]
`
	tree, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, []string{"saree", "banarasi"}, tree.Roots[0].Children[0].Children[0].Items)
}

func TestParse_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not a document", doc: `{"categories": `},
		{name: "empty", doc: ``},
		{name: "missing categories key", doc: `{"other": {}}`},
		{name: "categories is a list", doc: `{"categories": ["a"]}`},
		{name: "non-string leaf item", doc: `{"categories": {"A": {"B": ["x", 5]}}}`},
		{name: "nested list item", doc: `{"categories": {"A": {"B": [["x"]]}}}`},
		{
			name: "deeper than five levels",
			doc:  `{"categories": {"1": {"2": {"3": {"4": {"5": {"6": ["x"]}}}}}}}`,
		},
		{
			name: "items below level five",
			doc:  `{"categories": {"1": {"2": {"3": {"4": {"5": ["x"]}}}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_AllowsFourLevelsWithItems(t *testing.T) {
	tree, err := Parse([]byte(`{"categories": {"1": {"2": {"3": {"4": ["x"]}}}}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tree.Roots[0].Children[0].Children[0].Children[0].Items)
}

func TestParse_SkipsEmptyNames(t *testing.T) {
	tree, err := Parse([]byte(`{"categories": {"": {"X": ["y"]}, "A": {"B": ["", "c"]}}}`))
	require.NoError(t, err)
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "A", tree.Roots[0].Name)
	assert.Equal(t, []string{"c"}, tree.Roots[0].Children[0].Items)
}

func TestParse_SkipsScalarNodes(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantRoots []string
	}{
		{
			name:      "scalar at top level",
			doc:       `{"categories": {"A": "b", "C": {"D": ["e"]}}}`,
			wantRoots: []string{"C"},
		},
		{
			name:      "scalar among children",
			doc:       `{"categories": {"A": {"B": 3, "C": ["x"]}}}`,
			wantRoots: []string{"A"},
		},
		{
			name:      "only scalars",
			doc:       `{"categories": {"A": null, "B": true}}`,
			wantRoots: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse([]byte(tt.doc))
			require.NoError(t, err)

			names := make([]string, 0, len(tree.Roots))
			for _, n := range tree.Roots {
				names = append(names, n.Name)
			}
			assert.Equal(t, tt.wantRoots, names)
		})
	}

	tree, err := Parse([]byte(`{"categories": {"A": {"B": 3, "C": ["x"]}}}`))
	require.NoError(t, err)
	require.Len(t, tree.Roots[0].Children, 1)
	assert.Equal(t, "C", tree.Roots[0].Children[0].Name)
	assert.Equal(t, []string{"x"}, tree.Roots[0].Children[0].Items)
}

func TestNewStore_DegradesToEmptyTree(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
		},
		{
			name: "corrupt file",
			path: func(t *testing.T) string { return writeFile(t, "bad.json", `{not json`) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.path(t))
			require.NotNil(t, store.Tree())
			assert.True(t, store.Tree().Empty())
			assert.True(t, store.Subtree(1).Empty())
		})
	}
}

func TestNewStore_LoadsFile(t *testing.T) {
	store := NewStore(writeFile(t, "taxonomy.json", sampleJSON))
	assert.False(t, store.Tree().Empty())
	assert.Len(t, store.Tree().Roots, 2)
}

func TestStore_Subtree(t *testing.T) {
	tree, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)
	store := NewStoreFromTree(tree)

	tests := []struct {
		name  string
		level int
		want  string
	}{
		{
			name:  "level 1 lists top-level names",
			level: 1,
			want:  `{"Handicrafts":{},"Agriculture":{}}`,
		},
		{
			name:  "level 2",
			level: 2,
			want:  `{"Handicrafts":{"Toys":{},"Pottery":{}},"Agriculture":{"Spices":{}}}`,
		},
		{
			name:  "level 3",
			level: 3,
			want:  `{"Handicrafts":{"Toys":{"Wooden Toys":{}},"Pottery":["terracotta"]},"Agriculture":{"Spices":{"Whole Spices":{}}}}`,
		},
		{
			name:  "zero returns full tree",
			level: 0,
			want:  `{"Handicrafts":{"Toys":{"Wooden Toys":["toy","puzzle"]},"Pottery":["terracotta"]},"Agriculture":{"Spices":{"Whole Spices":["cardamom"]}}}`,
		},
		{
			name:  "five returns full tree",
			level: 5,
			want:  `{"Handicrafts":{"Toys":{"Wooden Toys":["toy","puzzle"]},"Pottery":["terracotta"]},"Agriculture":{"Spices":{"Whole Spices":["cardamom"]}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(store.Subtree(tt.level))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
			// Key order matters to callers, not just content
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestStore_SubtreeDoesNotMutateTree(t *testing.T) {
	tree, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)
	store := NewStoreFromTree(tree)

	sub := store.Subtree(3)
	sub.Roots[0].Name = "changed"
	sub.Roots[0].Children[1].Items[0] = "changed"

	assert.Equal(t, "Handicrafts", store.Tree().Roots[0].Name)
	assert.Equal(t, "terracotta", store.Tree().Roots[0].Children[1].Items[0])
}

func TestDefaultTaxonomyFile(t *testing.T) {
	tree, err := Load(filepath.Join("..", "..", "..", "data", "taxonomy.json"))
	require.NoError(t, err)
	assert.False(t, tree.Empty())
	assert.Equal(t, "Handicrafts", tree.Roots[0].Name)
}
