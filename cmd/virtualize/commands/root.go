// Package commands implements the virtualize command tree.
package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tphakala/go-virtual-surround/cmd/virtualize/internal/config"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "virtualize",
		Short: "Binaural rendering of multichannel audio through an HRIR",
		Long: `virtualize - render surround audio for headphones.

The HRIR is a 32-bit float WAV with one channel per virtual speaker,
each channel holding the impulse response of that speaker at the left
ear. Right ear responses are taken from the mirrored speaker.

Settings can be kept in a YAML file passed with --config; flags
override the file.

Examples:
  # Render a 5.1 WAV with a 7.1 HRIR
  virtualize render --hrir atmos.wav movie.wav movie-binaural.wav

  # Show the filter plan at 48 kHz
  virtualize info --hrir atmos.wav --rate 48000

  # Store a 48 kHz copy of an HRIR
  virtualize convert-hrir --rate 48000 atmos.wav atmos-48k.wav`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML settings file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		newRenderCmd(opts),
		newInfoCmd(opts),
		newConvertHRIRCmd(opts),
	)
	return cmd
}

// logger writes text logs to w, at debug level with -v.
func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// load reads the config file and applies the flags the user set.
func (o *globalOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("hrir") {
		cfg.HRIR, _ = flags.GetString("hrir")
	}
	if flags.Changed("backend") {
		cfg.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("block-size") {
		cfg.BlockSize, _ = flags.GetInt("block-size")
	}
	if flags.Changed("bits") {
		cfg.Bits, _ = flags.GetInt("bits")
	}
	if flags.Changed("quality") {
		cfg.Quality, _ = flags.GetString("quality")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("hrir", "", "HRIR file (32-bit float WAV)")
	cmd.Flags().String("backend", config.DefaultBackend, "transform backend: gonum, algo-fft")
	cmd.Flags().Int("block-size", 0, "convolution block size in frames, a power of two (0 = default)")
	cmd.Flags().String("quality", config.DefaultQuality, "HRIR resampling quality: low, medium, high, very-high")
}
