//go:build unit

package callsite

func init() {
	// This file stands in for an internal façade layer: its frames must be
	// skipped by the stack walk in Capture.
	RegisterInternalFile()
}

func captureThroughHelper() (Call, error) {
	return captureOneDeeper()
}

func captureOneDeeper() (Call, error) {
	return Capture(0, "captureThroughHelper")
}
