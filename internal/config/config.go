// Package config handles volmesh configuration loading and management.
package config

import (
	"github.com/Faultbox/volmesh/pkg/grid"
	"github.com/Faultbox/volmesh/pkg/volume"
)

// Config holds all mesh generation settings.
type Config struct {
	Mesh     MeshConfig     `yaml:"mesh"`
	Volume   VolumeConfig   `yaml:"volume"`
	Output   OutputConfig   `yaml:"output"`
	Provider ProviderConfig `yaml:"provider"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MeshConfig holds per-shape geometry options.
type MeshConfig struct {
	MaxError                   float64     `yaml:"max_error"`
	FromCenter                 bool        `yaml:"from_center"`
	ForceTriangleList          bool        `yaml:"force_triangle_list"`
	GenerateTextureCoordinates bool        `yaml:"generate_texture_coordinates"`
	Clip                       *ClipConfig `yaml:"clip,omitempty"` // Limit surfaces to a sub-region
}

// ClipConfig is a rectangle of grid points.
type ClipConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// VolumeConfig holds settings applied to grids that carry none.
type VolumeConfig struct {
	Depth  float64 `yaml:"depth"`
	NoData float64 `yaml:"no_data"`
}

// OutputConfig holds where built shapes are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	STL bool   `yaml:"stl"` // Also export triangle shapes as STL
}

// ProviderConfig holds background build settings.
type ProviderConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			MaxError:                   0.5,
			GenerateTextureCoordinates: true,
		},
		Volume: VolumeConfig{
			Depth:  100,
			NoData: grid.DefaultNoData,
		},
		Output: OutputConfig{
			Dir: "out",
		},
		Provider: ProviderConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Options converts the mesh section into per-call geometry options.
func (c *Config) Options() volume.Options {
	opts := volume.Options{
		MaxError:                   c.Mesh.MaxError,
		ForceTriangleList:          c.Mesh.ForceTriangleList,
		GenerateTextureCoordinates: c.Mesh.GenerateTextureCoordinates,
		FromCenter:                 c.Mesh.FromCenter,
	}
	if clip := c.Mesh.Clip; clip != nil {
		opts.Clip = &grid.Rect{X: clip.X, Y: clip.Y, Width: clip.Width, Height: clip.Height}
	}
	return opts
}
