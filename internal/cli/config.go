package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sipri/internal/pricing"
	"github.com/roach88/sipri/internal/store"
)

// NewConfigCommand groups the overhead config commands.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the fixed monthly overhead",
	}
	cmd.AddCommand(NewConfigShowCommand(rootOpts))
	cmd.AddCommand(NewConfigSetCommand(rootOpts))
	return cmd
}

// ConfigView is the JSON payload of config show and config set.
type ConfigView struct {
	WaterCost              float64 `json:"water_cost"`
	ElectricityCost        float64 `json:"electricity_cost"`
	GasCost                float64 `json:"gas_cost"`
	MonthlyProductionUnits int     `json:"monthly_production_units"`
	FixedTotal             float64 `json:"fixed_total"`
	Apportionment          float64 `json:"apportionment"`
}

// NewConfigShowCommand creates the config show command.
func NewConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the overhead config",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			return s.success(s.configView(), func() {
				fmt.Fprintln(s.out.Writer, "Overhead config")
				renderConfig(s.out.Writer, s.config)
			})
		},
	}
}

// ConfigSetOptions holds flags for config set.
type ConfigSetOptions struct {
	*RootOptions
	Water       float64
	Electricity float64
	Gas         float64
	Units       int
}

// NewConfigSetCommand creates the config set command.
func NewConfigSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigSetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change overhead values",
		Long: `Change the monthly fixed expenses or the monthly production. Only the
flags given are changed. Stored product prices are not recomputed; run
` + "`sipri recalc`" + ` afterwards.

Examples:
  sipri config set --water 30 --electricity 70 --units 1000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Water, "water", 0, "monthly water cost")
	cmd.Flags().Float64Var(&opts.Electricity, "electricity", 0, "monthly electricity cost")
	cmd.Flags().Float64Var(&opts.Gas, "gas", 0, "monthly gas cost")
	cmd.Flags().IntVar(&opts.Units, "units", 0, "units produced per month (0 disables overhead)")
	cmd.MarkFlagsOneRequired("water", "electricity", "gas", "units")

	return cmd
}

func runConfigSet(opts *ConfigSetOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	if err := s.guard(store.KindConfig); err != nil {
		return err
	}

	cfg := s.config
	flags := cmd.Flags()
	if flags.Changed("water") {
		cfg.WaterCost = opts.Water
	}
	if flags.Changed("electricity") {
		cfg.ElectricityCost = opts.Electricity
	}
	if flags.Changed("gas") {
		cfg.GasCost = opts.Gas
	}
	if flags.Changed("units") {
		cfg.MonthlyProductionUnits = opts.Units
	}
	if err := cfg.Validate(); err != nil {
		return fail(s.out, ExitCommandError, ErrCodeInvalidInput, "invalid config", err)
	}

	s.config = cfg
	s.saveConfig()
	if s.catalog.Len() > 0 {
		s.out.VerboseLog("%d stored prices still use the previous config", s.catalog.Len())
	}

	return s.success(s.configView(), func() {
		fmt.Fprintln(s.out.Writer, "Overhead config updated")
		renderConfig(s.out.Writer, s.config)
		if s.catalog.Len() > 0 {
			fmt.Fprintln(s.out.Writer, "Run `sipri recalc` to update stored prices.")
		}
	})
}

func (s *session) configView() ConfigView {
	return ConfigView{
		WaterCost:              s.config.WaterCost,
		ElectricityCost:        s.config.ElectricityCost,
		GasCost:                s.config.GasCost,
		MonthlyProductionUnits: s.config.MonthlyProductionUnits,
		FixedTotal:             s.config.FixedTotal(),
		Apportionment:          pricing.Apportionment(s.config),
	}
}
