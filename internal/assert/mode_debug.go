//go:build debug

package assert

const modeDebug = true
