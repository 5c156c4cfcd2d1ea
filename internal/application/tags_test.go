package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{"a", "b"}, SplitTags("a, b"))
	assert.Equal(t, []string{"go", "web"}, SplitTags(" go ,, web , go ,"))
}

func TestNormalizeTags_KeepsOrder(t *testing.T) {
	assert.Equal(t, []string{"z", "a"}, NormalizeTags([]string{" z", "a ", "z", "  "}))
	assert.NotNil(t, NormalizeTags(nil))
}

func TestValidateTags(t *testing.T) {
	verr := newValidationError()
	validateTags([]string{strings.Repeat("x", 65)}, verr)
	assert.Contains(t, verr.Fields, "tags")

	verr = newValidationError()
	many := make([]string, 21)
	for i := range many {
		many[i] = strings.Repeat("t", i+1)
	}
	validateTags(many, verr)
	assert.Contains(t, verr.Fields, "tags")

	verr = newValidationError()
	validateTags([]string{"ok"}, verr)
	assert.NoError(t, verr.orNil())
}
