package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/miradorstack/natal-engine/internal/chart"
	"github.com/miradorstack/natal-engine/internal/config"
	"github.com/miradorstack/natal-engine/internal/engine"
	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/repo"
	"github.com/miradorstack/natal-engine/internal/services"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// chartSize is the pixel edge of rendered wheels.
const chartSize = 600

type rootOptions struct {
	configPath string
	envFile    string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "natal-engine",
		Short:         "Natal chart positions, Vimshottari schedule and chart wheel",
		Long:          "natal-engine computes ascendant and planetary longitudes in the tropical and sidereal zodiacs, a simplified Vimshottari dasha schedule, and serves them over gRPC and HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(opts.envFile); err != nil {
				return err
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to configuration file (default $NATAL_ENGINE_CONFIG)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	serve := newServeCmd(opts)
	root.AddCommand(serve, newPositionsCmd(opts), newScheduleCmd(opts), newChartCmd(opts))
	root.RunE = serve.RunE
	return root
}

// buildService wires the configured oracle backend into the engine and the
// service facade.
func buildService(cfg *config.Config, logger *slog.Logger) (*services.NatalService, error) {
	zone, err := utils.LoadZone(cfg.Astrology.TimeZone)
	if err != nil {
		return nil, err
	}
	houseSystem, err := ephemeris.ParseHouseSystem(cfg.Astrology.HouseSystem)
	if err != nil {
		return nil, err
	}
	mode, err := ephemeris.ParseAyanamsaMode(cfg.Astrology.Ayanamsa)
	if err != nil {
		return nil, err
	}
	tag, err := locale.Parse(cfg.Astrology.Locale)
	if err != nil {
		return nil, err
	}

	var oracle ephemeris.Oracle
	switch cfg.Ephemeris.Backend {
	case config.BackendHTTP:
		oracle = repo.NewEphemerisClient(
			cfg.Ephemeris.BaseURL,
			cfg.Ephemeris.HousesPath,
			cfg.Ephemeris.AyanamsaPath,
			cfg.Ephemeris.BodyPath,
			mode,
			cfg.Ephemeris.Timeout,
		)
	default:
		oracle = ephemeris.NewAnalytic(mode)
	}
	logger.Debug("ephemeris backend selected",
		slog.String("backend", cfg.Ephemeris.Backend),
		slog.String("house_system", houseSystem.String()),
		slog.String("ayanamsa", string(mode)),
		slog.String("time_zone", zone.String()),
	)

	gateway := engine.NewGateway(oracle, houseSystem, cfg.Astrology.LookupConcurrency)
	assembler := engine.NewAssembler(
		logger,
		engine.NewTimeResolver(gateway, zone),
		gateway,
		engine.NewZodiacDecomposer(locale.SignNames(tag)),
	)
	return services.NewNatalService(logger, assembler, chart.NewWheel(chartSize), tag), nil
}

// cliLogger logs to stderr so stdout carries only command output.
func cliLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return utils.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.JSON)
}
