package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderShare(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		width       int
		wantFilled  int
		wantSuffix  string
	}{
		{"empty category", 0, 0, 10, 0, "0/0"},
		{"half done", 3, 6, 10, 5, "3/6"},
		{"all done", 4, 4, 8, 8, "4/4"},
		{"tiny width clamps to 2", 1, 2, 1, 1, "1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderShare(tt.done, tt.total, tt.width)
			assert.True(t, strings.HasSuffix(got, tt.wantSuffix), got)
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
		})
	}
}
