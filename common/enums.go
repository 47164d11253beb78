// Package common holds enums shared between configuration and commands.
package common

//go:generate go tool go-enum --marshal --names --values

// ImageResizeMode selects how uploaded images are scaled down.
// ENUM(none, keepAR, stretch)
type ImageResizeMode int

// RenderTarget is requested render output.
// ENUM(web, native, ion)
type RenderTarget int

// Ext returns file extension used when render output is written to a file.
func (t RenderTarget) Ext() string {
	switch t {
	case RenderTargetWeb:
		return ".xhtml"
	case RenderTargetNative:
		return ".txt"
	case RenderTargetIon:
		return ".ion"
	default:
		// this should never happen
		panic("unsupported render target requested")
	}
}

// StoreBackend selects record store implementation.
// ENUM(memory, sqlite)
type StoreBackend int
