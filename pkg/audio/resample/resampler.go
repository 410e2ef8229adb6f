// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used to bring a mono waveform to the 16 kHz rate voice activity detection expects
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
}

// New creates a new resampler
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts a whole mono buffer to the output rate.
// The output holds floor(len(input) * outputRate / inputRate) samples.
func (r *Resampler) Resample(input []float64) []float64 {
	if len(input) == 0 {
		return []float64{}
	}

	if r.inputRate == r.outputRate {
		out := make([]float64, len(input))
		copy(out, input)
		return out
	}

	output := make([]float64, r.OutputSamplesNeeded(len(input)))
	last := len(input) - 1

	for i := range output {
		// Calculate which input sample we need
		inputPos := float64(i) * r.ratio
		inputIdx := int(inputPos)

		if inputIdx >= last {
			output[i] = input[last]
			continue
		}

		// Linear interpolation factor
		frac := inputPos - float64(inputIdx)
		output[i] = input[inputIdx]*(1.0-frac) + input[inputIdx+1]*frac
	}

	return output
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	return int(float64(inputSamples) / r.ratio)
}
