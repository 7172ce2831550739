// Package scan finds the subjects of an experiment and the raw diffusion
// series that belong to each one.
package scan
