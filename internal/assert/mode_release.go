//go:build !debug

package assert

const modeDebug = false
