package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/fgeck/timeshift-console/internal/services/panel"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit and save the timeshift settings",
	Long: `Load the timeshift settings, apply the given flags through the panel and save.

Unlimited flags are applied before the numeric limits, so
  --unlimited-period=false --max-period 90
re-enables the period limit and sets it in one call.`,
	RunE: set,
}

var (
	setEnabled         bool
	setOnDemand        bool
	setPath            string
	setMaxPeriod       int64
	setUnlimitedPeriod bool
	setMaxSize         int64
	setUnlimitedSize   bool
)

func init() {
	setCmd.Flags().BoolVar(&setEnabled, "enabled", false, "enable timeshift")
	setCmd.Flags().BoolVar(&setOnDemand, "ondemand", false, "only engage the buffer when needed")
	setCmd.Flags().StringVar(&setPath, "path", "", "storage path")
	setCmd.Flags().Int64Var(&setMaxPeriod, "max-period", 0, "maximum period in minutes")
	setCmd.Flags().BoolVar(&setUnlimitedPeriod, "unlimited-period", false, "do not limit the period")
	setCmd.Flags().Int64Var(&setMaxSize, "max-size", 0, "maximum size in MB")
	setCmd.Flags().BoolVar(&setUnlimitedSize, "unlimited-size", false, "do not limit the size")
}

// edit is one flag applied to a panel field.
type edit struct {
	flag  string
	field string
	value func() string
}

// edits lists flag edits in application order.
var edits = []edit{
	{flag: "enabled", field: models.KeyEnabled, value: func() string { return strconv.FormatBool(setEnabled) }},
	{flag: "ondemand", field: models.KeyOnDemand, value: func() string { return strconv.FormatBool(setOnDemand) }},
	{flag: "unlimited-period", field: models.KeyUnlimitedPeriod, value: func() string { return strconv.FormatBool(setUnlimitedPeriod) }},
	{flag: "unlimited-size", field: models.KeyUnlimitedSize, value: func() string { return strconv.FormatBool(setUnlimitedSize) }},
	{flag: "path", field: models.KeyPath, value: func() string { return setPath }},
	{flag: "max-period", field: models.KeyMaxPeriod, value: func() string { return strconv.FormatInt(setMaxPeriod, 10) }},
	{flag: "max-size", field: models.KeyMaxSize, value: func() string { return strconv.FormatInt(setMaxSize, 10) }},
}

func set(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := mountPanel(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	changed := 0
	for _, e := range edits {
		if !cmd.Flags().Changed(e.flag) {
			continue
		}
		if err := p.SetValue(e.field, e.value()); err != nil {
			log.Error().Err(err).Str("flag", e.flag).Msg("cannot apply flag")
			return fmt.Errorf("--%s: %w", e.flag, err)
		}
		changed++
	}

	if changed == 0 {
		log.Warn().Msg("no settings given, saving the loaded values unchanged")
	}

	if err := p.Save(cmd.Context()); err != nil {
		return err
	}

	log.Info().Int("changed", changed).Msg("timeshift settings saved")
	return panel.WriteText(os.Stdout, p.Render())
}
