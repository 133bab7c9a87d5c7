//go:build !unix

package terminal

func winsize(uintptr) Size { return Size{} }
