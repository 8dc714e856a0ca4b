package cli

import (
	"flag"
	"os"
	"time"
)

// ReconFlags are the command-line options for a reconciliation run.
// TimeBufferSet records whether -buffer appeared on the command line,
// since 0s is a valid buffer and cannot double as "not given".
type ReconFlags struct {
	ConfigFile    string
	PrimaryFile   string
	PartnerFile   string
	Partner       string
	TimeBuffer    time.Duration
	TimeBufferSet bool
	OutDir        string
	Verbose       bool
}

// ParseReconFlags parses reconciliation flags from the command line
func ParseReconFlags() ReconFlags {
	return parseReconFlags(flag.CommandLine, os.Args[1:])
}

func parseReconFlags(fs *flag.FlagSet, args []string) ReconFlags {
	var flags ReconFlags
	fs.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	fs.StringVar(&flags.PrimaryFile, "primary", "", "Canonical primary (Soliduz) CSV file")
	fs.StringVar(&flags.PartnerFile, "partner-file", "", "Canonical partner CSV file")
	fs.StringVar(&flags.Partner, "partner", "", "Partner to match against: Shell or Petronas (default from config)")
	fs.DurationVar(&flags.TimeBuffer, "buffer", 0, "Time buffer, e.g. 1h, 30m or 0s (default from config)")
	fs.StringVar(&flags.OutDir, "out", ".", "Directory for result CSV files")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	_ = fs.Parse(args)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "buffer" {
			flags.TimeBufferSet = true
		}
	})
	return flags
}
