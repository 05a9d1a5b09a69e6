package smp

import (
	"golang.org/x/exp/maps"
)

// Native headers are the wire-level headers of an inbound frame: name to
// ordered list of string values, kept verbatim under the nativeHeaders
// key so protocol adapters can re-serialize them on the way out.

// cloneNativeHeaders copies the top-level map. Value slices are shared.
func cloneNativeHeaders(native map[string][]string) map[string][]string {
	return maps.Clone(native)
}

// NativeHeaders returns the stored wire header map, or nil when the
// message has none. The map is shared, not copied.
func (a *Accessor) NativeHeaders() map[string][]string {
	native, _ := a.headers[NativeHeadersHeader].(map[string][]string)
	return native
}

// FirstNativeHeader returns the first value stored under name, or the
// empty string when absent.
func (a *Accessor) FirstNativeHeader(name string) string {
	return GetFirstNativeHeader(a.headers, name)
}

// SetNativeHeader replaces the values stored under name with the single
// given value.
func (a *Accessor) SetNativeHeader(name, value string) error {
	if !a.mutable {
		return ErrHeadersImmutable
	}
	a.mutableNativeHeaders()[name] = []string{value}
	return nil
}

// AddNativeHeader appends value to the values stored under name.
func (a *Accessor) AddNativeHeader(name, value string) error {
	if !a.mutable {
		return ErrHeadersImmutable
	}
	native := a.mutableNativeHeaders()
	native[name] = append(native[name], value)
	return nil
}

func (a *Accessor) mutableNativeHeaders() map[string][]string {
	native, ok := a.headers[NativeHeadersHeader].(map[string][]string)
	if !ok {
		native = make(map[string][]string)
		a.headers[NativeHeadersHeader] = native
	}
	return native
}

// GetNativeHeaders is the map-based twin of NativeHeaders.
func GetNativeHeaders(headers Headers) map[string][]string {
	native, _ := headers[NativeHeadersHeader].(map[string][]string)
	return native
}

// GetFirstNativeHeader is the map-based twin of FirstNativeHeader.
func GetFirstNativeHeader(headers Headers, name string) string {
	native := GetNativeHeaders(headers)
	if values := native[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}
