package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	surround "github.com/tphakala/go-virtual-surround"
	"github.com/tphakala/go-virtual-surround/cmd/virtualize/internal/config"
	"github.com/tphakala/go-virtual-surround/hrir"
)

func newConvertHRIRCmd(opts *globalOptions) *cobra.Command {
	var rate int
	cmd := &cobra.Command{
		Use:   "convert-hrir IN OUT",
		Short: "Resample an HRIR and store it as float WAV",
		Long: `Convert-hrir resamples the HRIR IN to --rate and writes it to OUT as
a 32-bit float extensible WAV with the same channel layout. The impulse
responses are not normalized.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if rate <= 0 {
				return fmt.Errorf("--rate is required")
			}
			rec, err := hrir.Open(args[0])
			if err != nil {
				return err
			}
			fc, err := cfg.FilterConfig()
			if err != nil {
				return err
			}
			out, err := surround.ResampleRecording(rec, rate, fc)
			if err != nil {
				return err
			}
			if err := hrir.Create(args[1], out); err != nil {
				return err
			}
			opts.logger(cmd.ErrOrStderr()).Info("converted HRIR",
				"input", args[0],
				"output", args[1],
				"from_rate", rec.SampleRate,
				"to_rate", out.SampleRate,
				"frames", out.Frames(),
				"quality", fc.ResampleQuality)
			return nil
		},
	}
	cmd.Flags().IntVar(&rate, "rate", 0, "target sample rate in Hz")
	cmd.Flags().String("quality", config.DefaultQuality, "resampling quality: low, medium, high, very-high")
	return cmd
}
