// Package tui hosts a popover in the terminal. The scene is drawn at a fixed
// pixels-per-cell scale, mouse motion is fed to the hover tracker as pointer
// samples, and close requests come back to the program as messages.
package tui
