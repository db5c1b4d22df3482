package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

func strp(s string) *string { return &s }

func TestResolver_SystemDefaults(t *testing.T) {
	r := Resolver{
		System: &entities.SystemInfo{
			LibraryName:     "test",
			ValidExtensions: []string{"rom", "bin"},
			NeedFullpath:    true,
			BlockExtract:    true,
		},
	}

	attrs, err := r.Resolve(strp("rom"), nil)
	require.NoError(t, err)
	assert.Equal(t, entities.ContentAttributes{
		NeedFullpath: true,
		BlockExtract: true,
		Required:     true,
	}, attrs)

	r.SupportNoGame = true
	attrs, err = r.Resolve(strp("BIN"), nil)
	require.NoError(t, err)
	assert.False(t, attrs.Required)
}

func TestResolver_NoExtension(t *testing.T) {
	r := Resolver{
		System: &entities.SystemInfo{LibraryName: "test", NeedFullpath: true},
		Overrides: entities.ContentOverrides{
			{Extensions: []string{"rom"}, NeedFullpath: true},
		},
	}

	attrs, err := r.Resolve(nil, nil)
	require.NoError(t, err)
	assert.True(t, attrs.PersistentData)
	assert.False(t, attrs.NeedFullpath)
}

func TestResolver_OverridePrecedence(t *testing.T) {
	r := Resolver{
		System: &entities.SystemInfo{LibraryName: "test", ValidExtensions: []string{"zip"}},
		Overrides: entities.ContentOverrides{
			{Extensions: []string{"zip"}, NeedFullpath: true, PersistentData: false},
			{Extensions: []string{"zip"}, NeedFullpath: false, PersistentData: true},
		},
	}

	attrs, err := r.Resolve(strp("zip"), nil)
	require.NoError(t, err)
	assert.True(t, attrs.NeedFullpath)
	assert.False(t, attrs.PersistentData)
}

func TestResolver_SaveOverrideScenario(t *testing.T) {
	r := Resolver{
		System: &entities.SystemInfo{LibraryName: "test", ValidExtensions: []string{"rom"}},
		Overrides: entities.ContentOverrides{
			{Extensions: []string{"sav"}, NeedFullpath: true},
			{Extensions: []string{"sav"}, NeedFullpath: false},
		},
	}

	attrs, err := r.Resolve(strp("sav"), nil)
	require.NoError(t, err)
	assert.True(t, attrs.NeedFullpath)
}

func TestResolver_OverrideBeatsSubsystemROM(t *testing.T) {
	rom := &entities.SubsystemROM{
		ValidExtensions: []string{"gb"},
		NeedFullpath:    false,
		BlockExtract:    true,
		Required:        true,
	}
	r := Resolver{
		Overrides: entities.ContentOverrides{{Extensions: []string{"gb"}, NeedFullpath: true, PersistentData: true}},
	}

	attrs, err := r.Resolve(strp("gb"), rom)
	require.NoError(t, err)
	assert.Equal(t, entities.ContentAttributes{
		NeedFullpath:   true,
		PersistentData: true,
		BlockExtract:   true,
		Required:       true,
	}, attrs)
}

func TestResolver_SubsystemROM(t *testing.T) {
	rom := &entities.SubsystemROM{
		ValidExtensions: []string{"gb"},
		NeedFullpath:    true,
		Required:        false,
	}
	r := Resolver{
		System: &entities.SystemInfo{LibraryName: "test", ValidExtensions: []string{"sfc"}, BlockExtract: true},
	}

	attrs, err := r.Resolve(strp("gb"), rom)
	require.NoError(t, err)
	assert.True(t, attrs.NeedFullpath)
	assert.False(t, attrs.BlockExtract)
	assert.False(t, attrs.Required)
}

func TestResolver_UnregisteredExtension(t *testing.T) {
	r := Resolver{
		System: &entities.SystemInfo{LibraryName: "test", ValidExtensions: []string{"rom"}},
		Subsystems: entities.Subsystems{{
			Ident: "dual",
			ROMs:  []entities.SubsystemROM{{ValidExtensions: []string{"gb"}}},
		}},
	}

	_, err := r.Resolve(strp("exe"), nil)
	require.Error(t, err)
	var cerr *rherrors.ContentError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "resolve", cerr.Op)
	assert.ErrorIs(t, err, rherrors.ErrUnregisteredExtension)

	// Any subsystem rom registration counts.
	_, err = r.Resolve(strp("gb"), nil)
	assert.NoError(t, err)
}

func TestResolver_Idempotent(t *testing.T) {
	r := Resolver{
		System: &entities.SystemInfo{LibraryName: "test", ValidExtensions: []string{"rom", "sav"}, NeedFullpath: true},
		Overrides: entities.ContentOverrides{
			{Extensions: []string{"sav"}, PersistentData: true},
		},
	}
	rom := &entities.SubsystemROM{ValidExtensions: []string{"rom"}, Required: true}

	cases := []struct {
		name string
		ext  *string
		rom  *entities.SubsystemROM
	}{
		{"system", strp("rom"), nil},
		{"override", strp("sav"), nil},
		{"memory", nil, nil},
		{"subsystem", strp("rom"), rom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, err := r.Resolve(tc.ext, tc.rom)
			require.NoError(t, err)
			second, err := r.Resolve(tc.ext, tc.rom)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestResolver_ResolveSlot(t *testing.T) {
	sub := &entities.SubsystemInfo{
		Ident: "pair",
		ROMs: []entities.SubsystemROM{
			{ValidExtensions: []string{"a"}, Required: true},
			{ValidExtensions: []string{"b"}},
		},
	}
	r := Resolver{Subsystems: entities.Subsystems{*sub}}

	attrs, err := r.ResolveSlot(strp("a"), sub, 0)
	require.NoError(t, err)
	assert.True(t, attrs.Required)

	_, err = r.ResolveSlot(strp("zzz"), sub, 1)
	var cerr *rherrors.ContentError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.Slot)

	_, err = r.ResolveSlot(strp("a"), sub, 5)
	assert.ErrorIs(t, err, rherrors.ErrUnknownSubsystem)
}

func TestResolver_NoSystemInfo(t *testing.T) {
	_, err := Resolver{}.Resolve(nil, nil)
	assert.ErrorIs(t, err, rherrors.ErrNoSystemInfo)
}
