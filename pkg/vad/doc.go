// ABOUTME: Voice activity detection package
// ABOUTME: Speech timestamp detectors over 16-bit mono PCM
// Package vad finds speech regions in 16-bit mono PCM.
//
// Two detectors implement Detector:
//   - Energy: frame RMS with hysteresis, pure Go, always available
//   - Silero: the Silero ONNX model via silero-vad-go (build with -tags silero)
//
// Example:
//
//	det, err := vad.New(vad.Config{Engine: vad.EngineAuto, ModelPath: path})
//	stamps, err := det.DetectSpeechSegments(ctx, pcm, 16000, vad.DefaultParams())
//	for _, ts := range stamps {
//	    fmt.Println(ts.Start, ts.End) // sample indices at 16 kHz
//	}
package vad
