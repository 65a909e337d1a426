package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "42:resolution", Key("42", "resolution"))
	assert.Equal(t, "http:codeStyle", Key("http", "codeStyle"))
}
