package middleware

import (
	"testing"

	"vendora/models"

	"github.com/stretchr/testify/assert"
)

func TestCanManageStore(t *testing.T) {
	store := models.Store{
		ID:       "s1",
		OwnerID:  "owner",
		StaffIDs: []string{"staff1", "staff2"},
	}

	owner := Principal{UserID: "owner", Role: models.RoleUser}
	assert.True(t, owner.CanManageStore(store))

	staff := Principal{UserID: "staff2", Role: models.RoleUser}
	assert.True(t, staff.CanManageStore(store))

	admin := Principal{UserID: "somebody", Role: models.RoleAdmin}
	assert.True(t, admin.CanManageStore(store))

	stranger := Principal{UserID: "stranger", Role: models.RoleUser}
	assert.False(t, stranger.CanManageStore(store))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Principal{UserID: "u", Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, Principal{UserID: "u", Role: models.RoleUser}.IsAdmin())
	assert.False(t, Principal{UserID: "u"}.IsAdmin())
}
