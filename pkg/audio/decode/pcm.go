// ABOUTME: PCM audio decoder
// ABOUTME: Unpacks 16-bit little-endian PCM bytes to int16 samples
package decode

import "encoding/binary"

// PCM16 unpacks little-endian 16-bit samples; a trailing odd byte is ignored
func PCM16(data []byte) []int16 {
	numSamples := len(data) / 2
	samples := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}
