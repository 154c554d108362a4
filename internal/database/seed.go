package database

import (
	"fmt"
	"math/rand"
)

// Seed loads the built-in fleet, user base, ad configuration, and a
// synthetic 24-point metric series into an empty database. It stands in
// for a real backend: every screen of the panel starts from this data.
// The rng drives the metric series so tests can seed it deterministically.
// Seeding a non-empty database is a no-op.
func (db *Database) Seed(rng *rand.Rand) error {
	var count int64
	if err := db.Model(&ServerNode{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, node := range seedNodes() {
		node := node
		if err := db.CreateServerNode(&node); err != nil {
			return fmt.Errorf("failed to seed node %s: %w", node.Name, err)
		}
	}

	for _, user := range seedUsers() {
		user := user
		if err := db.CreateUser(&user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.Email, err)
		}
	}

	if err := db.SaveAdConfig(defaultAdConfig()); err != nil {
		return fmt.Errorf("failed to seed ad config: %w", err)
	}

	for i := 0; i < 24; i++ {
		sample := &SystemMetric{
			Label:             fmt.Sprintf("%d:00", i),
			CPU:               20 + rng.Intn(60),
			Memory:            30 + rng.Intn(50),
			ActiveConnections: 1000 + rng.Intn(5000),
		}
		if err := db.AppendMetric(sample); err != nil {
			return fmt.Errorf("failed to seed metrics: %w", err)
		}
	}

	return nil
}

// seedNodes returns the initial simulated fleet.
func seedNodes() []ServerNode {
	return []ServerNode{
		{
			ID: "1", Name: "US-East-1", Address: "192.168.1.101", Port: 443,
			Protocol: ProtocolVLESS, Country: "United States", Status: NodeOnline,
			Load: 45, Bandwidth: "4.5 TB", Transport: TransportWS, TLS: true,
			SNI: "us-east.nexusvpn.com", Path: "/vless-ws",
		},
		{
			ID: "2", Name: "SG-Asia-1", Address: "203.0.113.5", Port: 443,
			Protocol: ProtocolVMess, Country: "Singapore", Status: NodeOnline,
			Load: 78, Bandwidth: "12.1 TB", Transport: TransportWS, TLS: true,
			SNI: "sg.nexusvpn.com", Path: "/api/vmess",
		},
		{
			ID: "3", Name: "DE-Frankfurt", Address: "198.51.100.23", Port: 1194,
			Protocol: ProtocolOpenVPN, Country: "Germany", Status: NodeMaintenance,
			Load: 0, Bandwidth: "2.3 TB", Transport: TransportTCP,
		},
		{
			ID: "4", Name: "UK-London", Address: "51.15.12.11", Port: 51820,
			Protocol: ProtocolWireGuard, Country: "United Kingdom", Status: NodeOnline,
			Load: 22, Bandwidth: "1.8 TB", Transport: TransportQUIC,
		},
		{
			ID: "5", Name: "JP-Tokyo", Address: "13.114.22.55", Port: 443,
			Protocol: ProtocolHysteria2, Country: "Japan", Status: NodeOffline,
			Load: 0, Bandwidth: "5.6 TB", Transport: TransportQUIC, TLS: true,
			SNI: "jp.nexusvpn.com",
		},
	}
}

// seedUsers returns the initial user base.
func seedUsers() []User {
	return []User{
		{ID: "u1", Email: "alice@example.com", Status: UserActive, Subscription: PlanVIP, LastLogin: "2023-10-27 10:30", DeviceCount: 3},
		{ID: "u2", Email: "bob@test.com", Status: UserExpired, Subscription: PlanPremium, LastLogin: "2023-10-25 14:20", DeviceCount: 1},
		{ID: "u3", Email: "charlie@vpn.net", Status: UserBanned, Subscription: PlanFree, LastLogin: "2023-10-20 09:15", DeviceCount: 0},
		{ID: "u4", Email: "dave@user.com", Status: UserActive, Subscription: PlanFree, LastLogin: "2023-10-27 11:45", DeviceCount: 1},
		{ID: "u5", Email: "eve@hacker.com", Status: UserActive, Subscription: PlanPremium, LastLogin: "2023-10-27 12:00", DeviceCount: 2},
	}
}

// defaultAdConfig returns the initial monetization configuration.
func defaultAdConfig() *AdConfig {
	return &AdConfig{
		Enabled:              true,
		AppID:                "ca-app-pub-xxxxxxxxxxxxxxxx~yyyyyyyyyy",
		BannerUnitID:         "ca-app-pub-xxxxxxxxxxxxxxxx/zzzzzzzzzz",
		InterstitialUnitID:   "ca-app-pub-xxxxxxxxxxxxxxxx/wwwwwwwwww",
		RewardedUnitID:       "ca-app-pub-xxxxxxxxxxxxxxxx/vvvvvvvvvv",
		InterstitialInterval: 300,
	}
}
