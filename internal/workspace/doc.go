// Package workspace manages the per-run directories that hold the media
// files and the generated deck of one generation request.
//
// Every run lives in <output>/<uuid>/. Downloads resolve a run by its id,
// old runs are pruned after a retention period and the whole output tree
// can be moved into a timestamped archive.
package workspace
