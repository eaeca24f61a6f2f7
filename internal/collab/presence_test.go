package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceLifecycle(t *testing.T) {
	pm := NewPresenceManager()
	assert.Equal(t, 0, pm.Count())

	pm.Update("user_a", &PresencePayload{Selection: []string{"vol_1", "vol_2"}})
	pm.Update("user_b", &PresencePayload{BedPos: &BedPos{X: 10, Y: 20}})
	assert.Equal(t, 2, pm.Count())

	msg := pm.StateMessage()
	require.NotNil(t, msg)
	assert.Equal(t, TypePresenceState, msg.Type)

	var state PresenceStatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &state))
	assert.Len(t, state.Presences, 2)
	assert.Equal(t, []string{"vol_1", "vol_2"}, state.Presences["user_a"].Selection)

	pm.Remove("user_a")
	assert.Equal(t, 1, pm.Count())
	assert.NotContains(t, pm.GetAll(), "user_a")
}
