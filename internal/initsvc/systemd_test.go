package initsvc

import "testing"

func TestNotifySystemdReadyNoopWithoutNotifySocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	notifySystemdReady() // must not panic
	notifySystemdStopping()
}

func TestWatchdogLoopExitsOnStop(t *testing.T) {
	t.Setenv("WATCHDOG_USEC", "")
	stop := make(chan struct{})
	close(stop)
	watchdogLoop(stop) // must return immediately, not hang
}
