package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFilter_Matches(t *testing.T) {
	item := &Content{Title: "First Article", Body: "Body of the first article", Status: StatusPublished}

	tests := []struct {
		name   string
		filter ListFilter
		want   bool
	}{
		{"empty filter", ListFilter{}, true},
		{"all statuses", ListFilter{Status: StatusAll}, true},
		{"matching status", ListFilter{Status: "published"}, true},
		{"other status", ListFilter{Status: "draft"}, false},
		{"title, any case", ListFilter{Search: "FIRST"}, true},
		{"body only", ListFilter{Search: "body of"}, true},
		{"no match", ListFilter{Search: "design"}, false},
		{"search and status", ListFilter{Search: "article", Status: "archived"}, false},
		{"blank search", ListFilter{Search: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(item))
		})
	}
}

func TestClone_DetachesSlices(t *testing.T) {
	c := &Content{Tags: []string{"go"}, CategoryIDs: []string{"1"}}
	out := c.Clone()
	out.Tags[0] = "rust"
	out.CategoryIDs = append(out.CategoryIDs, "2")

	assert.Equal(t, "go", c.Tags[0])
	assert.Len(t, c.CategoryIDs, 1)
}
