package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	surround "github.com/tphakala/go-virtual-surround"
	"github.com/tphakala/go-virtual-surround/cmd/virtualize/internal/config"
	"github.com/tphakala/go-virtual-surround/hrir"
	"github.com/tphakala/go-virtual-surround/internal/audioio"
)

// Output blocks buffered per input chunk of one block.
const blocksPerChunk = 2

func newRenderCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render INPUT OUTPUT",
		Short: "Render a multichannel file to binaural stereo WAV",
		Long: `Render decodes INPUT (.wav, .ogg or .mp3), maps its channels onto the
HRIR by speaker position and writes binaural stereo PCM to OUTPUT.

The HRIR is resampled to the input rate when the two differ. Input
channels whose position is missing from the HRIR are dropped with a
warning. The output is as long as the input plus the HRIR tail.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			log := opts.logger(cmd.ErrOrStderr())
			return render(cmd.Context(), cfg, args[0], args[1], log)
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().Int("bits", config.DefaultBits, "output bit depth: 16, 24, 32")
	return cmd
}

func render(ctx context.Context, cfg *config.Config, inPath, outPath string, log *slog.Logger) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.HRIR == "" {
		return errors.New("no HRIR given (use --hrir or the config file)")
	}
	start := time.Now()

	src, err := audioio.Open(inPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	rec, err := hrir.Open(cfg.HRIR)
	if err != nil {
		return err
	}

	fc, err := cfg.FilterConfig()
	if err != nil {
		return err
	}
	fc.SampleRate = src.SampleRate()
	fc.Logger = log
	filter, err := surround.NewStreamingFilter(rec, fc)
	if err != nil {
		return fmt.Errorf("build filter: %w", err)
	}
	routing, err := surround.NewRouting(src.Positions(), filter.ChannelMap())
	if err != nil {
		return err
	}
	if unrouted := routing.Unrouted(); len(unrouted) > 0 {
		log.Warn("input channels have no HRIR channel and are dropped", "positions", unrouted)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	w, err := audioio.NewStereoWriter(out, src.SampleRate(), cfg.Bits)
	if err != nil {
		return err
	}

	r := &renderer{
		src:     src,
		filter:  filter,
		routing: routing,
		writer:  w,
		in:      make([]float32, filter.BlockSize()*src.Channels()),
		routed:  make([]float32, filter.BlockSize()*filter.Channels()),
		stereo:  make([]float32, blocksPerChunk*filter.BlockSize()*2),
	}
	filter.Prime()
	inputFrames, err := r.run(ctx)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize output: %w", err)
	}

	log.Info("rendered",
		"input", inPath,
		"output", outPath,
		"channels", src.Channels(),
		"sample_rate", src.SampleRate(),
		"input_frames", inputFrames,
		"output_frames", w.Frames(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// renderer moves one block of frames at a time from the source through
// the routing and the filter into the writer.
type renderer struct {
	src     audioio.Source
	filter  *surround.StreamingFilter
	routing *surround.Routing
	writer  *audioio.StereoWriter

	in     []float32
	routed []float32
	stereo []float32

	written int64
	target  int64
}

// run renders the whole source followed by the HRIR tail and returns the
// number of input frames.
func (r *renderer) run(ctx context.Context) (int64, error) {
	var inputFrames int64
	for {
		if err := ctx.Err(); err != nil {
			return inputFrames, err
		}
		frames, err := r.read()
		if err != nil {
			return inputFrames, err
		}
		if frames == 0 {
			break
		}
		inputFrames += int64(frames)
		if err := r.routing.Apply(r.routed, r.in, frames); err != nil {
			return inputFrames, err
		}
		if err := r.push(r.routed[:frames*r.filter.Channels()], -1); err != nil {
			return inputFrames, err
		}
	}

	// Convolution tail
	r.target = inputFrames + int64(r.filter.Raw().ImpulseFrames()) - 1
	clear(r.routed)
	for r.written < r.target {
		if err := ctx.Err(); err != nil {
			return inputFrames, err
		}
		if err := r.push(r.routed, r.target); err != nil {
			return inputFrames, err
		}
	}
	return inputFrames, nil
}

// read fills r.in with whole frames until it is full or the source ends.
func (r *renderer) read() (int, error) {
	channels := r.src.Channels()
	filled := 0
	for filled < len(r.in) {
		n, err := r.src.ReadSamples(r.in[filled:])
		filled += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read input: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return filled / channels, nil
}

// push filters input and writes the result, stopping at limit frames when
// limit is not negative.
func (r *renderer) push(input []float32, limit int64) error {
	n, err := r.filter.Transform(input, r.stereo)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if limit >= 0 {
		n = int(min(int64(n), limit-r.written))
	}
	if n == 0 {
		return nil
	}
	if err := r.writer.Write(r.stereo[:n*2]); err != nil {
		return err
	}
	r.written += int64(n)
	return nil
}
