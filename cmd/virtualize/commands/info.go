package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	surround "github.com/tphakala/go-virtual-surround"
	"github.com/tphakala/go-virtual-surround/hrir"
)

func newInfoCmd(opts *globalOptions) *cobra.Command {
	var rate int
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the filter planned from an HRIR",
		Long: `Info loads an HRIR, plans the filter at --rate (the HRIR rate when
unset) and prints the channel layout, FFT size and latency.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cfg.HRIR == "" {
				return fmt.Errorf("no HRIR given (use --hrir or the config file)")
			}
			rec, err := hrir.Open(cfg.HRIR)
			if err != nil {
				return err
			}
			fc, err := cfg.FilterConfig()
			if err != nil {
				return err
			}
			fc.SampleRate = rate
			fc.Logger = opts.logger(cmd.ErrOrStderr())
			filter, err := surround.NewRawFilter(rec, fc)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), cfg.HRIR, rec, filter, fc.Backend)
			return nil
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().IntVar(&rate, "rate", 0, "filter sample rate in Hz (0 = HRIR rate)")
	return cmd
}

func printInfo(w io.Writer, path string, rec *surround.Recording, f *surround.RawFilter, backend surround.Backend) {
	names := make([]string, 0, f.Channels())
	for _, p := range f.Positions() {
		names = append(names, p.ShortName())
	}

	fmt.Fprintf(w, "HRIR:          %s\n", path)
	fmt.Fprintf(w, "Format:        %s, %d bit\n", rec.Encoding, rec.BitsPerSample)
	fmt.Fprintf(w, "Channels:      %d (%s)\n", f.Channels(), strings.Join(names, " "))
	if f.SampleRate() != rec.SampleRate {
		fmt.Fprintf(w, "Sample rate:   %d Hz (resampled from %d Hz)\n", f.SampleRate(), rec.SampleRate)
	} else {
		fmt.Fprintf(w, "Sample rate:   %d Hz\n", f.SampleRate())
	}
	fmt.Fprintf(w, "Impulse:       %d frames\n", f.ImpulseFrames())
	fmt.Fprintf(w, "Block size:    %d frames\n", f.BlockSize())
	fmt.Fprintf(w, "FFT size:      %d\n", f.SamplesRequired())
	fmt.Fprintf(w, "Latency:       %d frames (%.2f ms)\n",
		f.SampleLatency(), float64(f.LatencyDuration().Microseconds())/1000)
	fmt.Fprintf(w, "Backend:       %s\n", backend)
}
