// ABOUTME: Segmentation package
// ABOUTME: Places markers from silence or speech and resolves the active segment to PCM
// Package segment turns a waveform into marked segments and back into audio.
//
// Silence places a marker wherever a long enough silent run ends. Speech asks
// a voice activity detector for speech regions and marks where each begins.
// Resolve extracts the segment that starts at the active marker as 16-bit PCM
// ready for playback or export.
//
// Example:
//
//	n, err := segment.DefaultSilence().Segment(w, store)
//	store.SetActive(store.Sorted()[0].ID)
//	clip, err := segment.Resolve(w, store)
//	err = clip.Export("segment.wav")
package segment
