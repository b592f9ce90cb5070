package panel

import "github.com/fgeck/timeshift-console/internal/models"

// Kind is the input widget of a field.
type Kind int

const (
	KindCheckbox Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindCheckbox:
		return "checkbox"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Field is the static definition of a form input.
type Field struct {
	Name       string
	Label      string
	Kind       Kind
	AllowBlank bool
	Width      int
}

// Binding disables Target while the Source checkbox is checked.
type Binding struct {
	Source string
	Target string
}

// fields lists the timeshift inputs in form order.
var fields = []Field{
	{Name: models.KeyEnabled, Label: "Enabled", Kind: KindCheckbox, Width: 300},
	{Name: models.KeyOnDemand, Label: "On-Demand", Kind: KindCheckbox, Width: 300},
	{Name: models.KeyPath, Label: "Storage Path", Kind: KindText, AllowBlank: true, Width: 300},
	{Name: models.KeyMaxPeriod, Label: "Max. Period (mins)", Kind: KindNumber, Width: 300},
	{Name: models.KeyUnlimitedPeriod, Label: "Unlimited time", Kind: KindCheckbox, Width: 300},
	{Name: models.KeyMaxSize, Label: "Max. Size (MB)", Kind: KindNumber, Width: 300},
	{Name: models.KeyUnlimitedSize, Label: "Unlimited size", Kind: KindCheckbox, Width: 300},
}

var bindings = []Binding{
	{Source: models.KeyUnlimitedPeriod, Target: models.KeyMaxPeriod},
	{Source: models.KeyUnlimitedSize, Target: models.KeyMaxSize},
}

// Layout of the "Timeshift Options" field set.
var (
	optionRows   = []string{models.KeyEnabled, models.KeyOnDemand, models.KeyPath}
	limitColumnA = []string{models.KeyMaxPeriod, models.KeyMaxSize}
	limitColumnB = []string{models.KeyUnlimitedPeriod, models.KeyUnlimitedSize}
)

// Fields returns the field definitions in form order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Bindings returns the dependent-field rules.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

func fieldByName(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
