//go:build !unix

package supervise

import "os"

// signalName is empty where processes do not die by signal.
func signalName(_ *os.ProcessState) string {
	return ""
}
