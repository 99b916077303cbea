package config

import "flag"

// Flags holds the command-line overrides shared by every volmesh command.
type Flags struct {
	ConfigPath string
	Debug      bool
	MaxError   float64
	Depth      float64
	OutDir     string
	FromCenter bool

	fs *flag.FlagSet
}

// RegisterFlags adds the config override flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Float64Var(&f.MaxError, "max-error", 0, "Tessellation error threshold (0 = full resolution)")
	fs.Float64Var(&f.Depth, "depth", 0, "Volume depth when the grid file carries none")
	fs.StringVar(&f.OutDir, "out", "", "Output directory")
	fs.BoolVar(&f.FromCenter, "from-center", false, "Tile surfaces from a centered block")
	return f
}

// apply copies every flag that was set on the command line into cfg.
func (f *Flags) apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "max-error":
			cfg.Mesh.MaxError = f.MaxError
		case "depth":
			cfg.Volume.Depth = f.Depth
		case "out":
			cfg.Output.Dir = f.OutDir
		case "from-center":
			cfg.Mesh.FromCenter = f.FromCenter
		}
	})
}

// IsSet reports whether the named flag was given on the command line.
func (f *Flags) IsSet(name string) bool {
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
