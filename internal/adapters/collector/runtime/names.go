package runtime

// Gauge and counter names emitted by the collector, already in dotted
// Carbon form so they pass the sanitizer's alphabet untouched.
const (
	MAlloc         = "runtime.mem.alloc"
	MTotalAlloc    = "runtime.mem.total_alloc"
	MSys           = "runtime.mem.sys"
	MHeapAlloc     = "runtime.mem.heap_alloc"
	MHeapIdle      = "runtime.mem.heap_idle"
	MHeapInuse     = "runtime.mem.heap_inuse"
	MHeapObjects   = "runtime.mem.heap_objects"
	MHeapReleased  = "runtime.mem.heap_released"
	MHeapSys       = "runtime.mem.heap_sys"
	MStackInuse    = "runtime.mem.stack_inuse"
	MStackSys      = "runtime.mem.stack_sys"
	MMallocs       = "runtime.mem.mallocs"
	MFrees         = "runtime.mem.frees"
	MLookups       = "runtime.mem.lookups"
	MNumGC         = "runtime.gc.num"
	MNumForcedGC   = "runtime.gc.num_forced"
	MPauseTotalNs  = "runtime.gc.pause_total_ns"
	MLastGC        = "runtime.gc.last"
	MNextGC        = "runtime.gc.next"
	MGCCPUFraction = "runtime.gc.cpu_fraction"
	MGoroutines    = "runtime.goroutines"

	TotalMemory    = "system.mem.total"
	FreeMemory     = "system.mem.free"
	CPUUtilization = "system.cpu.utilization." // + zero-based core index

	MPollCount = "agent.poll_count"
)
