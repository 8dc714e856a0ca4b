package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/application/service"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/cli"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/csvio"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/infrastructure/config"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/infrastructure/logging"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/model"
)

func main() {
	flags := cli.ParseReconFlags()

	cfg := loadConfig(flags.ConfigFile)
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "recon")

	if flags.PrimaryFile == "" || flags.PartnerFile == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -primary soliduz.csv -partner-file shell.csv [-partner Shell] [-buffer 1h] [-out dir]")
		os.Exit(2)
	}

	partnerName := flags.Partner
	if partnerName == "" {
		partnerName = cfg.Recon.Partner
	}
	partner, err := model.ParsePartnerKind(partnerName)
	if err != nil {
		fatal(logger, "invalid partner", err)
	}

	buffer := flags.TimeBuffer
	if !flags.TimeBufferSet {
		if buffer, err = cfg.Recon.BufferDuration(); err != nil {
			fatal(logger, "invalid config", err)
		}
	}

	primary, err := readRecords(flags.PrimaryFile, csvio.PrimarySide)
	if err != nil {
		fatal(logger, "reading primary file", err)
	}
	partnerRecords, err := readRecords(flags.PartnerFile, csvio.PartnerSide)
	if err != nil {
		fatal(logger, "reading partner file", err)
	}

	cli.PrintHeader(partner, buffer)

	svc := service.NewReconService(logger)
	result, err := svc.Reconcile(service.ReconRequest{
		Partner:    partner,
		TimeBuffer: &buffer,
	}, primary, partnerRecords)
	if err != nil {
		fatal(logger, "reconciliation failed", err)
	}

	paths, err := writeResults(flags.OutDir, result)
	if err != nil {
		fatal(logger, "writing results", err)
	}

	cli.PrintSummary(result.Summary)
	cli.PrintOutputs(paths)
}

func loadConfig(path string) *config.Config {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading config %s: %v\n", path, err)
			os.Exit(1)
		}
		return cfg
	}
	return config.LoadOrEnv()
}

func readRecords(path string, side csvio.Side) ([]model.TransactionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvio.ReadRecords(f, side)
}

func writeResults(dir string, result *service.ReconResult) ([]string, error) {
	outputs := []struct {
		name  string
		write func(*os.File) error
	}{
		{"matched_transactions.csv", func(f *os.File) error { return csvio.WriteMatches(f, result.Matches) }},
		{"soliduz_processed.csv", func(f *os.File) error { return csvio.WriteAnnotated(f, result.Annotated) }},
		{"mismatched_transactions.csv", func(f *os.File) error { return csvio.WriteMismatches(f, result.Mismatches) }},
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if err := out.write(f); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
