// ABOUTME: Editing session package
// ABOUTME: Tracks pairing a waveform with its markers, view and segmenters
// Package session wires the segmentation core into an editing workspace.
//
// A Track owns one waveform, its marker store and its view transform, and
// translates column positions from the editor into marker operations. A
// Session holds the two tracks the editor compares side by side.
package session
