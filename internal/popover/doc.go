// Package popover ties the position resolver, the presentation geometry and
// the hover tracker together behind an open/close controller. Hosts feed it
// pointer samples and outside clicks and receive close requests.
package popover
