package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchRequest struct {
	Query string `json:"query" validate:"max=10"`
	Page  int    `validate:"min=1"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(searchRequest{Query: "luke", Page: 1}))

	err := ValidateStruct(searchRequest{Query: "a very long search", Page: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query must be at most 10 characters")
	assert.Contains(t, err.Error(), "page must be at least 1")
}
