package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/miradorstack/natal-engine/internal/api"
	"github.com/miradorstack/natal-engine/internal/chart"
	"github.com/miradorstack/natal-engine/internal/models"
)

type birthFlags struct {
	date      string
	time      string
	latitude  float64
	longitude float64
}

func (b *birthFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.date, "date", "", "birth date, YYYY-MM-DD")
	cmd.Flags().StringVar(&b.time, "time", "", "local birth time, HH:MM")
	cmd.Flags().Float64Var(&b.latitude, "lat", 0, "latitude in degrees, north positive")
	cmd.Flags().Float64Var(&b.longitude, "lon", 0, "longitude in degrees, east positive")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func (b *birthFlags) input() models.BirthInput {
	return models.BirthInput{Date: b.date, Time: b.time, Latitude: b.latitude, Longitude: b.longitude}
}

func newPositionsCmd(opts *rootOptions) *cobra.Command {
	var birth birthFlags
	var lang string
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Print the ascendant and planetary positions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := buildService(opts.cfg, cliLogger(cmd, opts.cfg))
			if err != nil {
				return err
			}
			res, err := service.Positions(cmd.Context(), birth.input())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewPositionsResponse(res, service.SignNames(lang)))
		},
	}
	birth.register(cmd)
	cmd.Flags().StringVar(&lang, "lang", "", "sign name language (es, en); defaults to the configured locale")
	return cmd
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var birth birthFlags
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the simplified Vimshottari dasha schedule as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := buildService(opts.cfg, cliLogger(cmd, opts.cfg))
			if err != nil {
				return err
			}
			res, err := service.Schedule(cmd.Context(), birth.input())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewDashaResponse(res))
		},
	}
	birth.register(cmd)
	return cmd
}

func newChartCmd(opts *rootOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the zodiac wheel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := chart.ParseFormat(format)
			if err != nil {
				return err
			}
			service, err := buildService(opts.cfg, cliLogger(cmd, opts.cfg))
			if err != nil {
				return err
			}
			data, err := service.Chart(f)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "png", "output format (png, svg)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; stdout when empty")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
