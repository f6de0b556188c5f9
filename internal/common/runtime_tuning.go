package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Default memory limit applied when GOMEMLIMIT is unset. The engine is
// network-bound; the limit is a safety net against response-buffer bloat
// under sustained provider slowness, not a tuning knob.
const defaultMemLimit = 2 * 1024 * 1024 * 1024

// InitRuntime applies conservative runtime settings for an I/O-bound API
// server. Environment variables GOGC, GOMAXPROCS and GOMEMLIMIT always win.
func InitRuntime() {
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(defaultMemLimit)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Uint64("heap_alloc_mb", memStats.HeapAlloc/1024/1024).
		Str("go_version", runtime.Version()).
		Msg("[runtime] runtime initialized")
}
