package endpoint

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fgeck/timeshift-console/internal/models"
)

// fieldLabels names form fields in error messages the way the panel labels them.
var fieldLabels = map[string]string{
	models.KeyMaxPeriod: "Max. Period (mins)",
	models.KeyMaxSize:   "Max. Size (MB)",
}

// DecodeForm builds the record submitted by a settings form.
//
// Checkboxes follow browser semantics: present and truthy is true, absent is
// false. Disabled form fields are not submitted, so a missing text or number
// parameter keeps the value from previous.
func DecodeForm(values url.Values, previous models.TimeshiftSettings) (models.TimeshiftSettings, error) {
	s := models.TimeshiftSettings{
		Enabled:         checkbox(values, models.KeyEnabled),
		OnDemand:        checkbox(values, models.KeyOnDemand),
		Path:            previous.Path,
		UnlimitedPeriod: checkbox(values, models.KeyUnlimitedPeriod),
		UnlimitedSize:   checkbox(values, models.KeyUnlimitedSize),
	}

	if _, ok := values[models.KeyPath]; ok {
		s.Path = strings.TrimSpace(values.Get(models.KeyPath))
	}

	var err error
	if s.MaxPeriod, err = number(values, models.KeyMaxPeriod, previous.MaxPeriod, s.UnlimitedPeriod); err != nil {
		return models.TimeshiftSettings{}, err
	}
	if s.MaxSize, err = number(values, models.KeyMaxSize, previous.MaxSize, s.UnlimitedSize); err != nil {
		return models.TimeshiftSettings{}, err
	}

	return s, nil
}

// EncodeForm is the inverse of DecodeForm for a fully enabled form.
func EncodeForm(s models.TimeshiftSettings) url.Values {
	values := url.Values{}
	setCheckbox(values, models.KeyEnabled, s.Enabled)
	setCheckbox(values, models.KeyOnDemand, s.OnDemand)
	values.Set(models.KeyPath, s.Path)
	values.Set(models.KeyMaxPeriod, strconv.FormatInt(s.MaxPeriod, 10))
	setCheckbox(values, models.KeyUnlimitedPeriod, s.UnlimitedPeriod)
	values.Set(models.KeyMaxSize, strconv.FormatInt(s.MaxSize, 10))
	setCheckbox(values, models.KeyUnlimitedSize, s.UnlimitedSize)
	return values
}

func checkbox(values url.Values, key string) bool {
	if _, ok := values[key]; !ok {
		return false
	}
	return models.IsChecked(values.Get(key))
}

func setCheckbox(values url.Values, key string, checked bool) {
	if checked {
		values.Set(key, "on")
	}
}

// number parses a numeric field. Blank input is only accepted when the
// matching unlimited flag is set, in which case the previous value is kept.
func number(values url.Values, key string, previous int64, unlimited bool) (int64, error) {
	if _, ok := values[key]; !ok {
		return previous, nil
	}

	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		if unlimited {
			return previous, nil
		}
		return 0, fmt.Errorf("%s is required", fieldLabels[key])
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", fieldLabels[key], raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", fieldLabels[key])
	}

	return n, nil
}
