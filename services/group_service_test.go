package services

import (
	"testing"

	"wellnest/models"

	"github.com/stretchr/testify/assert"
)

func TestNewGroupServiceDefaultCap(t *testing.T) {
	svc := NewGroupService(nil, nil, nil, 120)
	assert.Equal(t, 120, svc.defaultMaxMembers)

	// Unset or nonsense config falls back to the model default.
	svc = NewGroupService(nil, nil, nil, 0)
	assert.Equal(t, models.DefaultMaxGroupMembers, svc.defaultMaxMembers)

	svc = NewGroupService(nil, nil, nil, -5)
	assert.Equal(t, models.DefaultMaxGroupMembers, svc.defaultMaxMembers)
}
