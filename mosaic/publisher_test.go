package mosaic

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher(t *testing.T) {
	t.Setenv("MQTT_PUBLISH_PREFIX", "")

	p := NewPublisher(nil, "")
	assert.Equal(t, DefaultPublishPrefix, p.Prefix())
	assert.Equal(t, byte(1), p.qos)
	assert.True(t, p.retain)

	assert.Equal(t, "custom", NewPublisher(nil, "custom").Prefix())

	t.Setenv("MQTT_PUBLISH_PREFIX", "from-env")
	assert.Equal(t, "from-env", NewPublisher(nil, "custom").Prefix())
}

func TestPublisher_NotConnected(t *testing.T) {
	t.Setenv("MQTT_PUBLISH_PREFIX", "")

	assert.Error(t, NewPublisher(nil, "").PublishResult(&Result{Name: "x"}))

	mock := NewMockClient()
	assert.Error(t, NewPublisher(mock, "").PublishResult(&Result{Name: "x"}))
	assert.Empty(t, mock.GetPublishedMessages())
}

func TestPublisher_PublishResult(t *testing.T) {
	t.Setenv("MQTT_PUBLISH_PREFIX", "")

	mock := NewMockClient()
	mock.SetConnected(true)
	p := NewPublisher(mock, "puzzles")

	require.NoError(t, p.PublishResult(&Result{Name: "day20", Checksum: 20899048083289, Roughness: 273}))
	require.NoError(t, p.PublishResult(&Result{Name: "alt", Checksum: 6, Roughness: 1}))

	msg, ok := mock.LastPublished("puzzles/day20")
	require.True(t, ok, "individual topic not published")
	assert.True(t, msg.Retain)

	var res Result
	require.NoError(t, json.Unmarshal(msg.Payload, &res))
	assert.Equal(t, uint64(20899048083289), res.Checksum)
	assert.Equal(t, 273, res.Roughness)

	combined, ok := mock.LastPublished("puzzles/results")
	require.True(t, ok, "combined topic not published")
	var payload struct {
		Results []ResultSummary `json:"results"`
	}
	require.NoError(t, json.Unmarshal(combined.Payload, &payload))
	require.Len(t, payload.Results, 2)
	assert.Equal(t, "alt", payload.Results[0].Name)
	assert.Equal(t, "day20", payload.Results[1].Name)

	s, ok := p.GetSummary("day20")
	assert.True(t, ok)
	assert.Equal(t, 273, s.Roughness)
}

func TestPublisher_PublishErrors(t *testing.T) {
	t.Setenv("MQTT_PUBLISH_PREFIX", "")

	mock := NewMockClient()
	mock.SetConnected(true)
	p := NewPublisher(mock, "")

	assert.Error(t, p.PublishResult(&Result{}), "unnamed result should be rejected")

	mock.SetPublishError(errors.New("broker full"))
	err := p.PublishResult(&Result{Name: "x"})
	assert.ErrorContains(t, err, "broker full")

	mock.SetPublishError(nil)
	require.NoError(t, p.PublishError("bad", ErrAssemblyStuck))
	msg, ok := mock.LastPublished("mosaic/bad/error")
	require.True(t, ok)
	assert.Contains(t, string(msg.Payload), "assembly stuck")
}

func TestPublisher_SetQoSAndRetain(t *testing.T) {
	p := NewPublisher(nil, "")
	p.SetQoS(2)
	assert.Equal(t, byte(2), p.qos)
	p.SetQoS(5)
	assert.Equal(t, byte(2), p.qos, "invalid QoS should be ignored")
	p.SetRetain(false)
	assert.False(t, p.retain)
}
