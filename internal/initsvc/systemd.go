package initsvc

import (
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"reactor/pkg/logging"
)

// notifySystemdReady tells systemd (if the process was started under it
// and NOTIFY_SOCKET is set) that startup has completed. It is a silent
// no-op otherwise.
func notifySystemdReady() {
	ok, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logging.Warn("initsvc", "sd_notify READY failed: %v", err)
		return
	}
	if ok {
		logging.Debug("initsvc", "sent sd_notify READY=1")
	}
}

func notifySystemdStopping() {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		logging.Warn("initsvc", "sd_notify STOPPING failed: %v", err)
	}
}

// watchdogLoop pings the systemd watchdog at half its configured interval
// until stop is closed. It is a no-op if WATCHDOG_USEC is not set. Meant
// to be run in its own goroutine for the lifetime of a booted InitService.
func watchdogLoop(stop <-chan struct{}) {
	interval, enabled, err := daemon.SdWatchdogEnabled(false)
	if err != nil || !enabled {
		return
	}

	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				logging.Warn("initsvc", "sd_notify WATCHDOG failed: %v", err)
			}
		}
	}
}
