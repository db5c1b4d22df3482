package envcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/abi"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

func TestNewProviders_RequiredSlots(t *testing.T) {
	_, err := NewProviders(WithAudio(&fakeAudio{}))
	require.Error(t, err)

	var cfg *rherrors.ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Contains(t, err.Error(), "'video'")
	assert.Contains(t, err.Error(), "'input'")
	assert.NotContains(t, err.Error(), "'audio'")
}

func TestNewProviders_NilProvider(t *testing.T) {
	_, err := NewProviders(
		WithAudio(&fakeAudio{}),
		WithVideo(&fakeVideo{}),
		WithInput(&fakeInput{}),
		WithPower(nil),
	)
	var cfg *rherrors.ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "power", cfg.Field)
}

func TestNewProviders_AttachesRumbleFromInput(t *testing.T) {
	in := &fakeInput{}
	p := baseProviders(t, WithInput(in))

	require.NotNil(t, p.Rumble)
	assert.Same(t, in, p.Rumble)
	assert.Nil(t, p.Sensor, "input does not implement sensors")
}

func TestNewProviders_ExplicitRumbleWins(t *testing.T) {
	explicit := &fakeInput{}
	p := baseProviders(t, WithRumble(explicit))
	assert.Same(t, explicit, p.Rumble)
}

func TestWithProvider(t *testing.T) {
	t.Run("fits slot", func(t *testing.T) {
		power := &fakePower{}
		p := baseProviders(t, WithProvider("power", power))
		assert.Same(t, power, p.Power)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := NewProviders(
			WithAudio(&fakeAudio{}),
			WithVideo(&fakeVideo{}),
			WithInput(&fakeInput{}),
			WithProvider("power", &fakeAudio{}),
		)
		var cfg *rherrors.ConfigError
		require.ErrorAs(t, err, &cfg)
		assert.Equal(t, "power", cfg.Field)
		assert.Contains(t, err.Error(), "does not implement")
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := NewProviders(
			WithAudio(&fakeAudio{}),
			WithVideo(&fakeVideo{}),
			WithInput(&fakeInput{}),
			WithProvider("camera", &fakePower{}),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider slot")
	})

	t.Run("nil", func(t *testing.T) {
		_, err := NewProviders(
			WithProvider("audio", nil),
			WithVideo(&fakeVideo{}),
			WithInput(&fakeInput{}),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil provider")
	})
}

func TestStandardBundles_OnlyPresentProviders(t *testing.T) {
	d, _ := newTestDispatcher(t, baseProviders(t))
	reg := d.Registry()

	assert.True(t, reg.Has(abi.EnvSetRotation))
	assert.True(t, reg.Has(abi.EnvGetRumbleInterface))
	assert.False(t, reg.Has(abi.EnvGetVariable))
	assert.False(t, reg.Has(abi.EnvGetDevicePower))
	assert.False(t, reg.Has(abi.EnvGetSensorInterface))
}
