//go:build windows

package cmd

import "os"

// Windows has no user signals; the shell runs without a trigger.
func notifyTrigger(chan<- os.Signal) func() {
	return func() {}
}
