package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ShilinYang123/PG-PMC-sub001/pkg/utils"
)

// Health returns the health status of the service
func (h *Handlers) Health(c *gin.Context) {
	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "pmc-analytics-backend",
		"version":   "1.0.0",
	}

	health["system"] = systemSnapshot()

	if h.wsHub != nil {
		health["websocket"] = h.wsHub.GetStats()
	}

	utils.SendSuccess(c, health)
}

// systemSnapshot gathers best-effort host metrics; failures leave the field
// out rather than failing the health check.
func systemSnapshot() gin.H {
	snapshot := gin.H{}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snapshot["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snapshot["memory_percent"] = vm.UsedPercent
		snapshot["memory_total"] = vm.Total
	}
	if du, err := disk.Usage("/"); err == nil {
		snapshot["disk_percent"] = du.UsedPercent
	}

	return snapshot
}
