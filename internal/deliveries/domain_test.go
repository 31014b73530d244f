package deliveries

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-08-24")
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-24"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, parsed.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`"24/08/2026"`), &parsed))
}

func TestDateOfDropsTimeComponent(t *testing.T) {
	instant := time.Date(2026, 8, 24, 23, 45, 12, 0, time.UTC)
	d := DateOf(instant)
	assert.Equal(t, "2026-08-24", d.String())
	assert.Zero(t, d.Hour())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanDeliver())
	assert.True(t, StatusPending.CanCancel())
	assert.False(t, StatusPending.CanReopen())

	assert.False(t, StatusDelivered.CanDeliver())
	assert.False(t, StatusDelivered.CanCancel())
	assert.True(t, StatusDelivered.CanReopen())

	assert.False(t, StatusCancelled.CanDeliver())
	assert.False(t, StatusCancelled.CanCancel())
	assert.True(t, StatusCancelled.CanReopen())

	assert.False(t, Status("Perdido").IsValid())
}
