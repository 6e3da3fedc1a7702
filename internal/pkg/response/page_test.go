package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageResponse(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		page     int
		pageSize int
		total    int
		wantJSON string
	}{
		{"empty", nil, 1, 20, 0, `{"items":[],"page":1,"page_size":20,"total":0,"has_more":false}`},
		{"more to come", []string{"a", "b"}, 1, 2, 5, `{"items":["a","b"],"page":1,"page_size":2,"total":5,"has_more":true}`},
		{"last page", []string{"e"}, 3, 2, 5, `{"items":["e"],"page":3,"page_size":2,"total":5,"has_more":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(NewPageResponse(tt.items, tt.page, tt.pageSize, tt.total))
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(out))
		})
	}
}
