//go:build linux || darwin

package main

import (
	"context"
	"runtime/debug"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/bnema/pipewin/internal/logging"
)

// enableCrashForensics makes fatal errors dump all goroutines and lifts the
// soft core size limit to the hard one, so a crash inside GTK or WebKit
// leaves a core file behind.
func enableCrashForensics() {
	debug.SetTraceback("crash")

	limit, err := coreLimit()
	if err != nil || limit.Cur >= limit.Max {
		return
	}
	limit.Cur = limit.Max
	_ = unix.Setrlimit(unix.RLIMIT_CORE, &limit)
}

func coreLimit() (unix.Rlimit, error) {
	var limit unix.Rlimit
	err := unix.Getrlimit(unix.RLIMIT_CORE, &limit)
	return limit, err
}

func logCoreDumpLimits(ctx context.Context) {
	log := logging.FromContext(ctx)
	limit, err := coreLimit()
	if err != nil {
		log.Debug().Err(err).Msg("failed to read RLIMIT_CORE")
		return
	}
	log.Debug().
		Str("soft", rlimitString(limit.Cur)).
		Str("hard", rlimitString(limit.Max)).
		Msg("core dump limits")
}

func rlimitString(v uint64) string {
	if v == unix.RLIM_INFINITY {
		return "unlimited"
	}
	return strconv.FormatUint(v, 10)
}
