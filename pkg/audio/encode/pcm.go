// ABOUTME: PCM audio encoder
// ABOUTME: Encodes normalized float samples to 16-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
)

// EncodePCM16 rounds each sample to 16-bit (clipping out-of-range values)
// and packs the result little-endian, 2 bytes per sample
func EncodePCM16(samples []float64) []byte {
	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.FloatToInt16(sample)))
	}
	return output
}
