package applog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentLoggersWriteThroughBase(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug", Service: "counselling-test"})

	WithComponent("http").Error().Str("path", "/x").Msg("internal error")
	Base().Info().Msg("command done")

	out := buf.String()
	assert.Contains(t, out, `"component":"http"`)
	assert.Contains(t, out, `"path":"/x"`)
	assert.Contains(t, out, `"service":"counselling-test"`)
	assert.Contains(t, out, "command done")
}
