package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsAllowed(t *testing.T) {
	checker := NewChecker([]string{"https://ecosort.example", "HTTP://Localhost:5173/"}, zap.NewNop())

	assert.True(t, checker.IsAllowed("https://ecosort.example"))
	assert.True(t, checker.IsAllowed("HTTPS://ECOSORT.EXAMPLE"))
	assert.True(t, checker.IsAllowed("http://localhost:5173"))
	assert.False(t, checker.IsAllowed("https://evil.example"))
	assert.False(t, checker.IsAllowed("https://ecosort.example.evil.example"))
}

func TestIsAllowedAbsentOrigin(t *testing.T) {
	checker := NewChecker([]string{"https://ecosort.example"}, nil)
	assert.True(t, checker.IsAllowed(""))
}
