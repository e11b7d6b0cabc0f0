package figure

import (
	"flag"
	"strings"

	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/pfx"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable read by LoadSettings,
// e.g. FIGURES_OUTPUT_DIR.
const EnvPrefix = "FIGURES"

// Settings controls where and how figures are written.
type Settings struct {
	OutputDir string   `envconfig:"OUTPUT_DIR" default:"figures"`
	Formats   []string `envconfig:"FORMATS" default:"png,pdf,svg"`
	DPI       int      `envconfig:"DPI" default:"300"`
	Seed      uint64   `envconfig:"SEED" default:"1"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return s, pfx.Err(err)
	}
	s.Formats = ParseFormats(strings.Join(s.Formats, ","))
	if s.DPI <= 0 {
		s.DPI = 300
	}
	return s, nil
}

// ParseFormats splits a comma separated list of output formats, dropping
// blanks, duplicates, and a leading dot.
func ParseFormats(list string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f)), ".")
		if f == "" {
			continue
		}
		if _, exists := seen[f]; exists {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Flags are the command-line overrides shared by every figure program.
type Flags struct {
	ConfigPath string
	OutputDir  string
	Formats    string
	DPI        int
	Seed       uint64
}

// RegisterFlags adds the shared flags to fs. Unset flags leave the
// environment (or its defaults) in charge.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "(Optional) Path to a JSON style file layered over the default colours and labels.")
	fs.StringVar(&f.OutputDir, "out", "", "(Optional) Output folder. Overrides "+EnvPrefix+"_OUTPUT_DIR.")
	fs.StringVar(&f.Formats, "formats", "", "(Optional) Comma-separated output formats, e.g. png,svg. Overrides "+EnvPrefix+"_FORMATS.")
	fs.IntVar(&f.DPI, "dpi", 0, "(Optional) Raster resolution. Overrides "+EnvPrefix+"_DPI.")
	fs.Uint64Var(&f.Seed, "seed", 0, "(Optional) Jitter seed. Overrides "+EnvPrefix+"_SEED.")
	return f
}

// Resolve loads the style and the environment settings and applies the
// flags on top.
func (f *Flags) Resolve() (style.Config, Settings, error) {
	cfg := style.Default()
	if f.ConfigPath != "" {
		var err error
		if cfg, err = style.ParseJSONConfigFromPath(f.ConfigPath); err != nil {
			return cfg, Settings{}, err
		}
	}

	s, err := LoadSettings()
	if err != nil {
		return cfg, s, err
	}
	f.Apply(&s)

	return cfg, s, nil
}

// Apply overrides s with every flag that was given.
func (f *Flags) Apply(s *Settings) {
	if f.OutputDir != "" {
		s.OutputDir = f.OutputDir
	}
	if formats := ParseFormats(f.Formats); len(formats) > 0 {
		s.Formats = formats
	}
	if f.DPI > 0 {
		s.DPI = f.DPI
	}
	if f.Seed != 0 {
		s.Seed = f.Seed
	}
}
