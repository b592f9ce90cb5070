package panel

import (
	"bytes"
	"testing"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_IsDeterministic(t *testing.T) {
	st := state{
		values: valuesFromSettings(loadedSettings()),
		loaded: true,
	}

	assert.Equal(t, render(st), render(st))
}

func TestRender_Layout(t *testing.T) {
	v := render(state{values: valuesFromSettings(models.DefaultTimeshiftSettings()), loaded: true})

	assert.Equal(t, "Timeshift", v.Title)
	assert.Equal(t, "clock", v.Icon)
	assert.Equal(t, "Timeshift Options", v.Options.Title)
	assert.True(t, v.Options.Collapsible)

	names := func(fvs []FieldView) []string {
		out := make([]string, 0, len(fvs))
		for _, f := range fvs {
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, []string{models.KeyEnabled, models.KeyOnDemand, models.KeyPath}, names(v.Options.Rows))
	require.Len(t, v.Options.Columns, 2)
	assert.Equal(t, []string{models.KeyMaxPeriod, models.KeyMaxSize}, names(v.Options.Columns[0]))
	assert.Equal(t, []string{models.KeyUnlimitedPeriod, models.KeyUnlimitedSize}, names(v.Options.Columns[1]))

	require.Len(t, v.Toolbar, 2)
	assert.Equal(t, "Save configuration", v.Toolbar[0].Text)
	assert.Equal(t, "save", v.Toolbar[0].Icon)
	assert.False(t, v.Toolbar[0].Disabled)
	assert.Equal(t, "Help", v.Toolbar[1].Text)
}

func TestRender_NotLoadedDisablesEverything(t *testing.T) {
	st := state{values: valuesFromSettings(models.DefaultTimeshiftSettings())}

	v := render(st)

	assert.True(t, v.Disabled)
	assert.True(t, v.Toolbar[0].Disabled)
	for _, f := range fields {
		fv, ok := v.Field(f.Name)
		require.True(t, ok)
		assert.True(t, fv.Disabled, f.Name)
	}
}

func TestFieldDefinitions(t *testing.T) {
	defs := Fields()

	require.Len(t, defs, len(models.Keys))
	for i, f := range defs {
		assert.Equal(t, models.Keys[i], f.Name)
	}

	period, ok := fieldByName(models.KeyMaxPeriod)
	require.True(t, ok)
	assert.Equal(t, KindNumber, period.Kind)
	assert.False(t, period.AllowBlank)

	path, ok := fieldByName(models.KeyPath)
	require.True(t, ok)
	assert.Equal(t, KindText, path.Kind)
	assert.True(t, path.AllowBlank)

	assert.Equal(t, []Binding{
		{Source: models.KeyUnlimitedPeriod, Target: models.KeyMaxPeriod},
		{Source: models.KeyUnlimitedSize, Target: models.KeyMaxSize},
	}, Bindings())
	assert.Equal(t, "checkbox", KindCheckbox.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestWriteText(t *testing.T) {
	v := render(state{values: valuesFromSettings(loadedSettings()), loaded: true})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, v))

	out := buf.String()
	assert.Contains(t, out, "Timeshift\n=========\n")
	assert.Contains(t, out, "[-] Timeshift Options")
	assert.Contains(t, out, "Enabled:")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "/var/lib/timeshift")
	assert.Contains(t, out, "120  (disabled)")
	assert.NotContains(t, out, "2048  (disabled)")
}

func TestWriteText_LoadingAndCollapsed(t *testing.T) {
	v := render(state{values: valuesFromSettings(models.DefaultTimeshiftSettings()), collapsed: true})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, v))

	out := buf.String()
	assert.Contains(t, out, "Timeshift (loading)")
	assert.Contains(t, out, "[+] Timeshift Options")
	assert.NotContains(t, out, "Storage Path")
}
