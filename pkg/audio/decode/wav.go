// ABOUTME: WAV file decoder
// ABOUTME: Reads integer and IEEE float WAV files into a normalized mono waveform
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/Resonate-Protocol/wavecut/pkg/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

// WAVE format tags
const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

// fmtHeader is the common part of a fmt chunk
type fmtHeader struct {
	Tag        uint16
	Channels   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	BitDepth   uint16
}

// fmtExtension follows fmtHeader in WAVE_FORMAT_EXTENSIBLE files
type fmtExtension struct {
	Size        uint16
	ValidBits   uint16
	ChannelMask uint32
	SubFormat   [16]byte
}

// DecodeWAV reads a WAV stream and returns its first channel as a normalized waveform
// along with the source format
func DecodeWAV(r io.ReadSeeker) (*audio.Waveform, audio.Format, error) {
	tag, err := formatTag(r)
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("%w: not a valid WAV file: %v", audio.ErrInvalidAudio, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, audio.Format{}, fmt.Errorf("failed to rewind WAV stream: %w", err)
	}

	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, audio.Format{}, fmt.Errorf("%w: not a valid WAV file", audio.ErrInvalidAudio)
	}

	format := audio.Format{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
	}

	switch tag {
	case wavFormatPCM:
		return decodeInt(decoder, format)
	case wavFormatIEEEFloat:
		return decodeFloat(decoder, format)
	default:
		return nil, audio.Format{}, fmt.Errorf("%w: unsupported WAV format tag 0x%04x", audio.ErrInvalidAudio, tag)
	}
}

func decodeInt(decoder *wav.Decoder, format audio.Format) (*audio.Waveform, audio.Format, error) {
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("%w: failed to read PCM buffer: %v", audio.ErrInvalidAudio, err)
	}

	if buf.Format != nil {
		format.SampleRate = buf.Format.SampleRate
		format.Channels = buf.Format.NumChannels
	}

	waveform, err := audio.FromPCM(buf.Data, format.Channels, format.SampleRate)
	if err != nil {
		return nil, audio.Format{}, err
	}
	return waveform, format, nil
}

// decodeFloat reads 32- or 64-bit IEEE float samples straight from the data chunk
func decodeFloat(decoder *wav.Decoder, format audio.Format) (*audio.Waveform, audio.Format, error) {
	if format.BitDepth != 32 && format.BitDepth != 64 {
		return nil, audio.Format{}, fmt.Errorf("%w: unsupported float bit depth %d", audio.ErrInvalidAudio, format.BitDepth)
	}
	if format.Channels < 1 {
		return nil, audio.Format{}, fmt.Errorf("%w: invalid channel count %d", audio.ErrInvalidAudio, format.Channels)
	}

	if err := decoder.FwdToPCM(); err != nil {
		return nil, audio.Format{}, fmt.Errorf("%w: %v", audio.ErrInvalidAudio, err)
	}
	if decoder.PCMChunk == nil {
		return nil, audio.Format{}, fmt.Errorf("%w: PCM chunk not found", audio.ErrInvalidAudio)
	}

	data, err := io.ReadAll(io.LimitReader(decoder.PCMChunk, int64(decoder.PCMSize)))
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("%w: failed to read float samples: %v", audio.ErrInvalidAudio, err)
	}

	width := format.BitDepth / 8
	frame := width * format.Channels
	samples := make([]float64, len(data)/frame)
	for i := range samples {
		b := data[i*frame:]
		if width == 4 {
			samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		} else {
			samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
	}

	waveform, err := audio.NewWaveform(samples, format.SampleRate)
	if err != nil {
		return nil, audio.Format{}, err
	}
	return waveform, format, nil
}

// formatTag returns the sample encoding of a WAV stream. For extensible files it
// is taken from the first two bytes of the sub-format GUID.
func formatTag(r io.Reader) (uint16, error) {
	parser := riff.New(r)
	if err := parser.ParseHeaders(); err != nil {
		return 0, err
	}
	if parser.Format != riff.WavFormatID {
		return 0, fmt.Errorf("RIFF form %q is not WAVE", parser.Format[:])
	}

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}

		var header fmtHeader
		if err := chunk.ReadLE(&header); err != nil {
			return 0, err
		}
		if header.Tag != wavFormatExtensible {
			return header.Tag, nil
		}

		var ext fmtExtension
		if chunk.Size < binary.Size(header)+binary.Size(ext) {
			return 0, fmt.Errorf("extensible fmt chunk too short: %d bytes", chunk.Size)
		}
		if err := chunk.ReadLE(&ext); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint16(ext.SubFormat[:2]), nil
	}
}

// LoadWAV opens and decodes a WAV file
func LoadWAV(path string) (*audio.Waveform, audio.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	waveform, format, err := DecodeWAV(f)
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("Loaded WAV: %s (sample rate: %d Hz, channels: %d, bit depth: %d, %.2fs)",
		path, format.SampleRate, format.Channels, format.BitDepth, waveform.Duration())

	return waveform, format, nil
}
