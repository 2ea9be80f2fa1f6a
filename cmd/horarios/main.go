package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/config"
	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/logger"
	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/lp"
	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/prepare"
	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/schedule"
	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/solution"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "horarios",
		Short:        "Builds class-timetabling LP models and interprets solver answers",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")
	cmd.AddCommand(prepareCmd())
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(interpretCmd())
	return cmd
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func prepareCmd() *cobra.Command {
	var tablesDir, outDir string

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Normalize the raw CSV relations into solver-ready JSON inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			tables, err := prepare.LoadTables(tablesDir, log)
			if err != nil {
				return err
			}

			preprocessor := prepare.NewPreprocessor(log, cfg.Labels, cfg.DayStart, cfg.DayEnd)
			odd, even, err := preprocessor.Build(tables)
			if err != nil {
				return err
			}

			if err := prepare.WriteInput(filepath.Join(outDir, "input_impares.json"), odd); err != nil {
				return err
			}
			return prepare.WriteInput(filepath.Join(outDir, "input_pares.json"), even)
		},
	}

	cmd.Flags().StringVar(&tablesDir, "tables", "", "directory holding the CSV table exports")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the normalized JSON inputs")
	cmd.MarkFlagRequired("tables")
	return cmd
}

func generateCmd() *cobra.Command {
	var inputPath, outPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the first-fit allocation and write the LP constraint model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			input, err := schedule.InputFromJSON(inputPath)
			if err != nil {
				return fmt.Errorf("cannot parse input file: %w", err)
			}

			exclusions, err := cfg.ExclusionTable()
			if err != nil {
				return err
			}

			allocator := schedule.NewAllocator(log, exclusions, cfg.TheoreticalLabel)
			result, err := allocator.Build(input)
			if err != nil {
				return err
			}

			model := lp.NewEmitter(exclusions, cfg.OverlapExemptUnits).Emit(input, result)
			if err := model.WriteFile(outPath); err != nil {
				return err
			}

			log.Info("model written",
				zap.String("file", outPath),
				zap.Int("placed", len(result.Placements)),
				zap.Int("unplaced", len(result.Unplaced)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "normalized JSON input file")
	cmd.Flags().StringVar(&outPath, "out", "schedule.lp", "destination LP file")
	cmd.MarkFlagRequired("input")
	return cmd
}

func interpretCmd() *cobra.Command {
	var solutionPath, inputPath, outPath string

	cmd := &cobra.Command{
		Use:   "interpret",
		Short: "Decode a solver solution and render the HTML timetable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			input, err := schedule.InputFromJSON(inputPath)
			if err != nil {
				return fmt.Errorf("cannot parse input file: %w", err)
			}

			file, err := os.Open(solutionPath)
			if err != nil {
				return err
			}
			defer file.Close()

			decoded, err := solution.Read(file, input, log)
			if err != nil {
				return err
			}

			log.Info("solution decoded",
				zap.Int("classes", len(decoded.Classes)),
				zap.Int64s("usedRooms", decoded.UsedRooms),
			)

			return solution.WriteTimetable(outPath, decoded.Classes, cfg.PeriodsPerDay, log)
		},
	}

	cmd.Flags().StringVar(&solutionPath, "solution", "", "solver solution XML file")
	cmd.Flags().StringVar(&inputPath, "input", "", "normalized JSON input file")
	cmd.Flags().StringVar(&outPath, "out", "timetable.html", "destination HTML file")
	cmd.MarkFlagRequired("solution")
	cmd.MarkFlagRequired("input")
	return cmd
}
