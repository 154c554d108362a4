// Package database provides data models and the data access layer for the
// admin panel. It defines the panel schema using GORM and includes models
// for server nodes, user accounts, ad configuration, and metric samples.
// The panel runs against an in-memory SQLite database by default; nothing
// written here is expected to survive a process restart.
package database

import (
	"time"
)

// Protocol identifies the tunneling protocol a server node speaks.
type Protocol string

// Supported node protocols.
const (
	ProtocolVMess       Protocol = "VMess"
	ProtocolVLESS       Protocol = "VLESS"
	ProtocolTrojan      Protocol = "Trojan"
	ProtocolShadowsocks Protocol = "Shadowsocks"
	ProtocolOpenVPN     Protocol = "OpenVPN"
	ProtocolWireGuard   Protocol = "WireGuard"
	ProtocolHysteria2   Protocol = "Hysteria2"
	ProtocolTuic        Protocol = "Tuic"
	ProtocolSocks5      Protocol = "Socks5"
	ProtocolSSH         Protocol = "SSH"
	ProtocolHTTP        Protocol = "HTTP"
)

// Transport identifies the stream transport carrying the protocol.
type Transport string

// Supported transports.
const (
	TransportTCP  Transport = "tcp"
	TransportKCP  Transport = "kcp"
	TransportWS   Transport = "ws"
	TransportHTTP Transport = "http"
	TransportQUIC Transport = "quic"
	TransportGRPC Transport = "grpc"
)

// NodeStatus represents the operational state of a server node.
type NodeStatus string

// Node status values. Maintenance is never entered or left by the
// online/offline toggle; it is set through the node editor only.
const (
	NodeOnline      NodeStatus = "online"
	NodeOffline     NodeStatus = "offline"
	NodeMaintenance NodeStatus = "maintenance"
)

// UserStatus represents the account state of a panel user.
type UserStatus string

// User status values.
const (
	UserActive  UserStatus = "active"
	UserBanned  UserStatus = "banned"
	UserExpired UserStatus = "expired"
)

// Plan represents a user's subscription tier.
type Plan string

// Subscription plans.
const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanVIP     Plan = "vip"
)

// ValidPlan reports whether s names a known subscription plan.
// Matching is exact; callers normalize case before validating.
func ValidPlan(s string) bool {
	switch Plan(s) {
	case PlanFree, PlanPremium, PlanVIP:
		return true
	}
	return false
}

// ServerNode represents a simulated VPN endpoint managed by the panel.
// It carries the connection endpoint, the protocol/transport configuration
// clients need to reach it, and display statistics (load, bandwidth) that
// the simulated tick keeps moving.
type ServerNode struct {
	ID        string     `gorm:"primaryKey" json:"id"`          // Opaque unique identifier
	Name      string     `gorm:"not null" json:"name"`          // Human-readable node name
	Address   string     `json:"address"`                       // IP address or hostname
	Port      int        `json:"port"`                          // TCP listen port
	Protocol  Protocol   `json:"protocol"`                      // Tunneling protocol
	Country   string     `json:"country"`                       // Node location, free text
	Status    NodeStatus `gorm:"default:offline" json:"status"` // online, offline or maintenance
	Load      int        `gorm:"default:0" json:"load"`         // Load percentage, always within [0,100]
	Bandwidth string     `json:"bandwidth"`                     // Cumulative bandwidth, display string (e.g. "1.2 TB")

	// Transport configuration
	Transport Transport `json:"transport"`                // Stream transport
	TLS       bool      `gorm:"default:false" json:"tls"` // Whether TLS is enabled
	SNI       string    `json:"sni,omitempty"`            // Server name indication for ws/grpc/http transports
	Path      string    `json:"path,omitempty"`           // WebSocket path or gRPC service name
	UDPPort   int       `json:"udp_port,omitempty"`       // UDP port for QUIC-based transports

	// Custom payload injection for ISP bypass setups
	CustomPayload   string `json:"custom_payload,omitempty"`            // Raw or JSON payload template
	EnablePayload   bool   `gorm:"default:false" json:"enable_payload"` // Whether the payload is injected
	PayloadInterval int    `json:"payload_interval,omitempty"`          // Injection interval in seconds, minimum 10

	CreatedAt time.Time `json:"created_at"` // Creation timestamp
	UpdatedAt time.Time `json:"updated_at"` // Last update timestamp
}

// User represents an end-user account of the VPN service.
type User struct {
	ID           string     `gorm:"primaryKey" json:"id"`              // Opaque unique identifier
	Email        string     `gorm:"uniqueIndex;not null" json:"email"` // Login email, also the search key
	Status       UserStatus `gorm:"default:active" json:"status"`      // active, banned or expired
	Subscription Plan       `gorm:"default:free" json:"subscription"`  // Subscription tier
	LastLogin    string     `json:"last_login"`                        // Last login, display string
	DeviceCount  int        `gorm:"default:0" json:"device_count"`     // Devices currently registered
	CreatedAt    time.Time  `json:"created_at"`                        // Creation timestamp
	UpdatedAt    time.Time  `json:"updated_at"`                        // Last update timestamp
}

// DeviceLimit returns the device ceiling for the user's subscription tier.
// The limit is display-only; nothing in the panel enforces it.
func (u *User) DeviceLimit() int {
	if u.Subscription == PlanVIP {
		return 10
	}
	return 3
}

// AdConfig is the singleton monetization configuration record.
// There is exactly one row, addressed by a fixed primary key.
type AdConfig struct {
	ID                   uint   `gorm:"primaryKey" json:"-"`
	Enabled              bool   `json:"enabled"`               // Master switch for all ads
	AppID                string `json:"app_id"`                // AdMob application identifier
	BannerUnitID         string `json:"banner_unit_id"`        // Banner ad unit
	InterstitialUnitID   string `json:"interstitial_unit_id"`  // Interstitial ad unit
	RewardedUnitID       string `json:"rewarded_unit_id"`      // Rewarded ad unit
	InterstitialInterval int    `json:"interstitial_interval"` // Seconds between interstitials
}

// SystemMetric is one point-in-time sample of panel-wide health figures.
// Samples are append-only and feed the dashboard chart and the health
// snapshot handed to the AI gateway.
type SystemMetric struct {
	ID                uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Label             string `json:"label"`              // Display label for the sample (e.g. "14:00")
	CPU               int    `json:"cpu"`                // CPU usage percentage
	Memory            int    `json:"memory"`             // Memory usage percentage
	ActiveConnections int    `json:"active_connections"` // Concurrent VPN connections
}

// TableName returns the database table name for ServerNode model.
func (ServerNode) TableName() string {
	return "server_nodes"
}

// TableName returns the database table name for User model.
func (User) TableName() string {
	return "users"
}

// TableName returns the database table name for AdConfig model.
func (AdConfig) TableName() string {
	return "ad_config"
}

// TableName returns the database table name for SystemMetric model.
func (SystemMetric) TableName() string {
	return "system_metrics"
}
