// Package formats reads and writes volume grid files and exports shapes
// as meshes.
package formats

// Note: .vgrd grid files are implemented in grd.go
// Note: STL export is implemented in stl.go
