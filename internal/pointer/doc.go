// Package pointer carries pointer-movement samples from a host to its
// subscribers and classifies whether the device can hover at all.
package pointer
