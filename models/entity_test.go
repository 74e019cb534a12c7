package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityID_StringAndParse(t *testing.T) {
	tests := []struct {
		name    string
		id      EntityID
		encoded string
	}{
		{name: "local id", id: LocalID(42), encoded: "local:42"},
		{name: "remote id", id: RemoteID(917), encoded: "917"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.encoded, tt.id.String())

			parsed, err := ParseEntityID(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.id, parsed)
		})
	}
}

func TestParseEntityID_Invalid(t *testing.T) {
	for _, in := range []string{"", "local:", "abc", "local:-3", "0", "-42"} {
		_, err := ParseEntityID(in)
		assert.ErrorIs(t, err, ErrInvalidEntityID, in)
	}
}

func TestEntityID_LocalAndRemoteNeverCollide(t *testing.T) {
	assert.NotEqual(t, LocalID(7), RemoteID(7))
	assert.True(t, LocalID(7).IsLocal())
	assert.False(t, RemoteID(7).IsLocal())
}

func TestEntityID_JSONAsMapKey(t *testing.T) {
	in := map[EntityID]string{LocalID(1): "a", RemoteID(2): "b"}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"local:1":"a","2":"b"}`, string(data))

	var out map[EntityID]string
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestDiffFields(t *testing.T) {
	local := Fields{"title": "Write report", "done": false, "priority": float64(2)}
	remote := Fields{"title": "Write the report", "done": false, "tags": []any{"work"}}

	assert.Equal(t, []string{"priority", "tags", "title"}, DiffFields(local, remote))
	assert.Empty(t, DiffFields(local, local.Clone()))
}

func TestPendingOperation_Describe(t *testing.T) {
	op := PendingOperation{EntityType: EntityFocusSession, Kind: OperationCreate}
	assert.Equal(t, "create focus session", op.Describe())
}

func TestSyncFailure_MessageNamesEntity(t *testing.T) {
	op := PendingOperation{OpID: 3, EntityType: EntityTask, TargetID: LocalID(42), Kind: OperationCreate}

	exhausted := NewSyncFailure(op, FailureRetriesExhausted, "timeout", zeroTime)
	assert.Contains(t, exhausted.Message(), "create task")

	rejected := NewSyncFailure(op, FailureRejected, "bad payload", zeroTime)
	assert.Contains(t, rejected.Message(), "create task")
}

var zeroTime time.Time
