// Package pointers builds optional fields in recipe inputs and fixtures.
package pointers

func Int(v int) *int          { return &v }
func String(v string) *string { return &v }
