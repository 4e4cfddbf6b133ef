package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsApprovalAcceptsYOnly(t *testing.T) {
	assert.True(t, isApproval('y'))
	assert.True(t, isApproval('Y'))
	assert.False(t, isApproval('n'))
	assert.False(t, isApproval('N'))
	assert.False(t, isApproval('\n'))
	assert.False(t, isApproval(0))
}
