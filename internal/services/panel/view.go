package panel

import (
	"fmt"
	"io"
	"strings"

	"github.com/fgeck/timeshift-console/internal/models"
)

// View is a snapshot of the panel for a renderer.
type View struct {
	Title    string
	Icon     string
	Disabled bool
	Toolbar  []Button
	Options  FieldSet
}

// FieldSet is the collapsible "Timeshift Options" section.
type FieldSet struct {
	Title       string
	Collapsible bool
	Collapsed   bool
	Rows        []FieldView
	Columns     [][]FieldView
}

// FieldView is the rendered state of one input.
type FieldView struct {
	Field
	Value    string
	Disabled bool
}

// Checked reports whether a checkbox value is set.
func (f FieldView) Checked() bool {
	return f.Kind == KindCheckbox && models.IsChecked(f.Value)
}

// Button is a toolbar button.
type Button struct {
	Text     string
	Tooltip  string
	Icon     string
	Disabled bool
}

// state is everything the view depends on.
type state struct {
	values    map[string]string
	loaded    bool
	saving    bool
	collapsed bool
}

// render derives a View from state. It is the only place where disabled
// flags are computed, both before and after a load.
func render(st state) View {
	disabled := map[string]bool{}
	for _, f := range fields {
		disabled[f.Name] = !st.loaded
	}
	for _, b := range bindings {
		if models.IsChecked(st.values[b.Source]) {
			disabled[b.Target] = true
		}
	}

	fieldView := func(name string) FieldView {
		f, _ := fieldByName(name)
		return FieldView{Field: f, Value: st.values[name], Disabled: disabled[name]}
	}
	fieldViews := func(names []string) []FieldView {
		out := make([]FieldView, 0, len(names))
		for _, name := range names {
			out = append(out, fieldView(name))
		}
		return out
	}

	return View{
		Title:    "Timeshift",
		Icon:     "clock",
		Disabled: !st.loaded,
		Toolbar: []Button{
			{
				Text:     "Save configuration",
				Tooltip:  "Save changes made to configuration below",
				Icon:     "save",
				Disabled: !st.loaded || st.saving,
			},
			{Text: "Help"},
		},
		Options: FieldSet{
			Title:       "Timeshift Options",
			Collapsible: true,
			Collapsed:   st.collapsed,
			Rows:        fieldViews(optionRows),
			Columns:     [][]FieldView{fieldViews(limitColumnA), fieldViews(limitColumnB)},
		},
	}
}

// Field returns the rendered field with the given name.
func (v View) Field(name string) (FieldView, bool) {
	for _, f := range v.Options.Rows {
		if f.Name == name {
			return f, true
		}
	}
	for _, col := range v.Options.Columns {
		for _, f := range col {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldView{}, false
}

// WriteText renders v as plain text, one field per line.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	title := v.Title
	if v.Disabled {
		title += " (loading)"
	}
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len(title)))

	marker := "-"
	if v.Options.Collapsed {
		marker = "+"
	}
	fmt.Fprintf(&b, "[%s] %s\n", marker, v.Options.Title)

	if !v.Options.Collapsed {
		for _, f := range v.Options.Rows {
			writeField(&b, f)
		}
		for _, col := range v.Options.Columns {
			for _, f := range col {
				writeField(&b, f)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeField(b *strings.Builder, f FieldView) {
	var value string
	switch f.Kind {
	case KindCheckbox:
		value = "[ ]"
		if f.Checked() {
			value = "[x]"
		}
	default:
		value = f.Value
		if value == "" {
			value = "(empty)"
		}
	}

	suffix := ""
	if f.Disabled {
		suffix = "  (disabled)"
	}
	fmt.Fprintf(b, "    %-20s %s%s\n", f.Label+":", value, suffix)
}
