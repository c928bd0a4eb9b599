//go:build kmldebug

package kml

import "fmt"

func assertf(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf("kml: "+format, args...))
	}
}
