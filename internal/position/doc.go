// Package position resolves the absolute document-space rectangle of an
// element by walking its chain of positioning ancestors and summing offset,
// scroll and border corrections at each level.
package position
