package stats

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

var (
	processStart = time.Now()

	netOnce         sync.Once
	netSentBaseline uint64
	netRecvBaseline uint64
)

type SystemInfo struct {
	OS           string
	Hostname     string
	SystemUptime time.Duration

	CPUCores int
	CPUUsage float64

	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64

	DiskUsed    uint64
	DiskTotal   uint64
	DiskPercent float64
	DiskFree    uint64

	NetSent uint64
	NetRecv uint64

	ProcessPID    int
	ProcessUptime time.Duration
	ProcessCPU    float64
	ProcessMem    uint64

	GoVersion  string
	Goroutines int
	HeapAlloc  uint64
	GCRuns     uint32
}

// CaptureNetBaseline records the interface counters so NetSent and NetRecv
// count traffic since startup only.
func CaptureNetBaseline() {
	netOnce.Do(func() {
		if counters, err := net.IOCounters(false); err == nil && len(counters) > 0 {
			netSentBaseline = counters[0].BytesSent
			netRecvBaseline = counters[0].BytesRecv
		}
	})
}

// GetSystemInfo samples host and process metrics. Disk figures are for the
// filesystem holding diskPath. Metrics that cannot be read stay zero.
func GetSystemInfo(diskPath string) *SystemInfo {
	info := &SystemInfo{}

	if hostInfo, err := host.Info(); err == nil {
		info.OS = hostInfo.OS
		info.Hostname = hostInfo.Hostname
		info.SystemUptime = time.Duration(hostInfo.Uptime) * time.Second
	}

	if cpuPercent, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercent) > 0 {
		info.CPUUsage = cpuPercent[0]
	}
	info.CPUCores = runtime.NumCPU()

	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.MemUsed = memInfo.Used
		info.MemTotal = memInfo.Total
		info.MemPercent = memInfo.UsedPercent
	}

	if diskInfo, err := disk.Usage(existingDir(diskPath)); err == nil {
		info.DiskUsed = diskInfo.Used
		info.DiskTotal = diskInfo.Total
		info.DiskPercent = diskInfo.UsedPercent
		info.DiskFree = diskInfo.Free
	}

	if counters, err := net.IOCounters(false); err == nil && len(counters) > 0 {
		info.NetSent = counters[0].BytesSent - netSentBaseline
		info.NetRecv = counters[0].BytesRecv - netRecvBaseline
	}

	info.ProcessPID = os.Getpid()
	if proc, err := process.NewProcess(int32(info.ProcessPID)); err == nil {
		if cpuPercent, err := proc.CPUPercent(); err == nil {
			info.ProcessCPU = cpuPercent
		}
		if memInfo, err := proc.MemoryInfo(); err == nil {
			info.ProcessMem = memInfo.RSS
		}
	}
	info.ProcessUptime = time.Since(processStart)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	info.GoVersion = runtime.Version()
	info.Goroutines = runtime.NumGoroutine()
	info.HeapAlloc = m.Alloc
	info.GCRuns = m.NumGC

	return info
}

// FreeSpace reports the bytes available to unprivileged users on the
// filesystem holding path.
func FreeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(existingDir(path))
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// existingDir walks up from path to the nearest directory that exists, so
// usage can be queried before a work directory is created.
func existingDir(path string) string {
	if path == "" {
		return "/"
	}
	for {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}
