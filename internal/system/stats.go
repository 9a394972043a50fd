package system

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/authguard/internal/logger"
)

// SystemStats is the host and account snapshot served to signed-in users
type SystemStats struct {
	Hostname  string      `json:"hostname"`
	CPU       CPUStats    `json:"cpu"`
	Memory    MemoryStats `json:"memory"`
	Disk      DiskStats   `json:"disk"`
	Accounts  int         `json:"accounts"`
	Uptime    string      `json:"uptime"`
	Timestamp time.Time   `json:"timestamp"`
}

// CPUStats represents CPU usage statistics
type CPUStats struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int     `json:"cores"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Total        uint64  `json:"total_bytes"`
	Used         uint64  `json:"used_bytes"`
	Available    uint64  `json:"available_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

// DiskStats represents disk usage of the volume holding the database
type DiskStats struct {
	Total        uint64  `json:"total_bytes"`
	Used         uint64  `json:"used_bytes"`
	Free         uint64  `json:"free_bytes"`
	UsagePercent float64 `json:"usage_percent"`
	Path         string  `json:"path"`
}

// UserCounter reports how many accounts exist
type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

// Collector gathers SystemStats. Individual probe failures are logged and
// leave their section zeroed.
type Collector struct {
	dataDir string
	users   UserCounter
	log     *logger.Logger
	started time.Time
}

// NewCollector creates a collector measuring disk usage at dataDir
func NewCollector(dataDir string, users UserCounter, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Default()
	}
	return &Collector{
		dataDir: dataDir,
		users:   users,
		log:     log,
		started: time.Now(),
	}
}

// GetSystemStats takes one snapshot
func (c *Collector) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	hostname, _ := os.Hostname()

	stats := &SystemStats{
		Hostname:  hostname,
		CPU:       c.getCPUStats(ctx),
		Memory:    c.getMemoryStats(ctx),
		Disk:      c.getDiskStats(ctx, c.dataDir),
		Uptime:    time.Since(c.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}

	if c.users != nil {
		n, err := c.users.CountUsers(ctx)
		if err != nil {
			return nil, err
		}
		stats.Accounts = n
	}

	return stats, nil
}

func (c *Collector) getCPUStats(ctx context.Context) CPUStats {
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		c.log.Warn("failed to get CPU count", logger.Properties{"error": err.Error()})
		cores = 1
	}

	// 0 interval compares against the previous call instead of blocking
	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		c.log.Warn("failed to get CPU usage", logger.Properties{"error": err.Error()})
		return CPUStats{Cores: cores}
	}

	usage := 0.0
	if len(percentages) > 0 {
		usage = percentages[0]
	}
	return CPUStats{UsagePercent: usage, Cores: cores}
}

func (c *Collector) getMemoryStats(ctx context.Context) MemoryStats {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		c.log.Warn("failed to get memory stats", logger.Properties{"error": err.Error()})
		return MemoryStats{}
	}

	return MemoryStats{
		Total:        vm.Total,
		Used:         vm.Used,
		Available:    vm.Available,
		UsagePercent: vm.UsedPercent,
	}
}

func (c *Collector) getDiskStats(ctx context.Context, path string) DiskStats {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		c.log.Warn("failed to get disk stats", logger.Properties{"path": path, "error": err.Error()})
		return DiskStats{Path: path}
	}

	return DiskStats{
		Total:        usage.Total,
		Used:         usage.Used,
		Free:         usage.Free,
		UsagePercent: usage.UsedPercent,
		Path:         path,
	}
}
