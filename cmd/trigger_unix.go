//go:build !windows

package cmd

import (
	"os"
	"os/signal"
	"syscall"
)

// TriggerSignal starts an entry labeled with trigger_label while the shell
// runs, e.g. `pkill -USR1 chronos` bound to a desktop hotkey.
const TriggerSignal = syscall.SIGUSR1

func notifyTrigger(c chan<- os.Signal) func() {
	signal.Notify(c, TriggerSignal)
	return func() { signal.Stop(c) }
}
