//go:build noresample

package surround

// defaultResampler is nil in builds without a resampler; filters then
// require the HRIR to match Config.SampleRate or a Config.Resampler.
var defaultResampler func(ResampleQuality) ResampleFunc
