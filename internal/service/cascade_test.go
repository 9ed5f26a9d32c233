package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyBetween(t *testing.T) {
	assert.Equal(t, PolicyCascade, PolicyBetween("region", "zone"))
	assert.Equal(t, PolicyCascade, PolicyBetween("hardware", "interface"))
	assert.Equal(t, PolicyRestrict, PolicyBetween("hardwareType", "hardwareInfo"))
	assert.Equal(t, PolicyNullify, PolicyBetween("tenant", "hardware"))
	assert.Equal(t, PolicyNullify, PolicyBetween("switch", "interface"))

	// Unknown edges restrict rather than silently cascading.
	assert.Equal(t, PolicyRestrict, PolicyBetween("region", "hardware"))
}

func TestDeleteRules_ReturnsCopy(t *testing.T) {
	rules := DeleteRules()
	rules[0].Policy = PolicyNullify

	assert.Equal(t, PolicyCascade, PolicyBetween("region", "zone"))
}
