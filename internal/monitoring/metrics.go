// Package monitoring provides the panel's health reporting: dashboard
// statistics aggregated from the store and the JSON health snapshot
// handed to the AI gateway as context. The underlying metric series is
// synthetic — this panel simulates its fleet — but the aggregation
// mirrors what a live collector would feed it.
package monitoring

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexus-panel/internal/database"
)

// Monitor aggregates store-wide health figures for the dashboard and
// the AI gateway.
type Monitor struct {
	db  *database.Database
	log *zap.SugaredLogger

	mu         sync.RWMutex
	lastReport time.Time // When the last health report was composed
}

// Stats is the dashboard overview block.
type Stats struct {
	TotalNodes  int64                   `json:"total_nodes"`  // Nodes in the fleet
	OnlineNodes int64                   `json:"online_nodes"` // Nodes currently online
	TotalUsers  int64                   `json:"total_users"`  // Registered user accounts
	ActiveUsers int64                   `json:"active_users"` // Accounts in active status
	Series      []database.SystemMetric `json:"series"`       // Metric series for the chart
}

// HealthAlert is one advisory line in the health report.
type HealthAlert struct {
	Level   string `json:"level"`   // "info" or "warning"
	Message string `json:"message"` // Human-readable advisory
}

// HealthReport is the opaque JSON-shaped snapshot given to the AI
// gateway as analysis context.
type HealthReport struct {
	Timestamp      time.Time     `json:"timestamp"`          // When the snapshot was composed
	GlobalStatus   string        `json:"global_status"`      // "Healthy" or "Degraded"
	ActiveNodes    int64         `json:"active_nodes"`       // Nodes currently online
	TotalNodes     int64         `json:"total_nodes"`        // Nodes in the fleet
	Bandwidth24h   string        `json:"total_bandwidth_24h"` // Display figure for the last day
	Alerts         []HealthAlert `json:"alerts"`             // Current advisories
	Infrastructure struct {
		CPUAvg string `json:"cpu_avg"` // Average CPU across the series
		RAMAvg string `json:"ram_avg"` // Average memory across the series
	} `json:"infrastructure"`
}

// NewMonitor creates a monitor over the given store.
func NewMonitor(db *database.Database, log *zap.SugaredLogger) *Monitor {
	return &Monitor{
		db:  db,
		log: log,
	}
}

// Stats aggregates the dashboard overview from the store.
func (m *Monitor) Stats() (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.OnlineNodes, err = m.db.CountServerNodes(database.NodeOnline); err != nil {
		return nil, fmt.Errorf("failed to count online nodes: %w", err)
	}

	nodes, err := m.db.ListServerNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	stats.TotalNodes = int64(len(nodes))

	users, err := m.db.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	stats.TotalUsers = int64(len(users))
	if stats.ActiveUsers, err = m.db.CountUsers(database.UserActive); err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	if stats.Series, err = m.db.ListMetrics(); err != nil {
		return nil, fmt.Errorf("failed to load metric series: %w", err)
	}

	return stats, nil
}

// Report composes a point-in-time health snapshot. Global status is
// Degraded when any node sits above 80% load or the whole fleet is
// offline; the alert list surfaces the same findings.
func (m *Monitor) Report() (*HealthReport, error) {
	nodes, err := m.db.ListServerNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	report := &HealthReport{
		Timestamp:    time.Now().UTC(),
		GlobalStatus: "Healthy",
		TotalNodes:   int64(len(nodes)),
	}

	for _, node := range nodes {
		if node.Status == database.NodeOnline {
			report.ActiveNodes++
			if node.Load > 80 {
				report.Alerts = append(report.Alerts, HealthAlert{
					Level:   "warning",
					Message: fmt.Sprintf("High load detected on %s (%d%%)", node.Name, node.Load),
				})
				report.GlobalStatus = "Degraded"
			}
		}
		if node.Status == database.NodeMaintenance {
			report.Alerts = append(report.Alerts, HealthAlert{
				Level:   "info",
				Message: fmt.Sprintf("%s is under maintenance", node.Name),
			})
		}
	}
	if len(nodes) > 0 && report.ActiveNodes == 0 {
		report.GlobalStatus = "Degraded"
		report.Alerts = append(report.Alerts, HealthAlert{
			Level: "warning", Message: "No nodes are online",
		})
	}

	report.Bandwidth24h = totalBandwidth(nodes)

	samples, err := m.db.ListMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to load metric series: %w", err)
	}
	cpuAvg, ramAvg := averages(samples)
	report.Infrastructure.CPUAvg = fmt.Sprintf("%d%%", cpuAvg)
	report.Infrastructure.RAMAvg = fmt.Sprintf("%d%%", ramAvg)

	m.mu.Lock()
	m.lastReport = report.Timestamp
	m.mu.Unlock()

	return report, nil
}

// ReportJSON returns the health snapshot serialized for prompt context.
func (m *Monitor) ReportJSON() (string, error) {
	report, err := m.Report()
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal health report: %w", err)
	}
	return string(data), nil
}

// LastReportTime returns when a health report was last composed, or the
// zero time if none has been.
func (m *Monitor) LastReportTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastReport
}

// averages returns the mean CPU and memory percentages of the series.
func averages(samples []database.SystemMetric) (int, int) {
	if len(samples) == 0 {
		return 0, 0
	}
	var cpu, ram int
	for _, s := range samples {
		cpu += s.CPU
		ram += s.Memory
	}
	return cpu / len(samples), ram / len(samples)
}

// totalBandwidth sums the display bandwidth figures of the fleet.
// The per-node figures are free-form display strings, so the sum only
// counts those with a parseable "<number> <unit>" shape.
func totalBandwidth(nodes []database.ServerNode) string {
	var totalTB float64
	for _, node := range nodes {
		var value float64
		var unit string
		if _, err := fmt.Sscanf(node.Bandwidth, "%f %s", &value, &unit); err != nil {
			continue
		}
		switch unit {
		case "TB":
			totalTB += value
		case "GB":
			totalTB += value / 1024
		}
	}
	return fmt.Sprintf("%.1f TB", totalTB)
}
