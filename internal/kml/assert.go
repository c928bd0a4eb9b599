//go:build !kmldebug

package kml

func assertf(bool, string, ...any) {}
