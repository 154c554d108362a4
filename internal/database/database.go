package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// adConfigID is the fixed primary key of the singleton AdConfig row.
const adConfigID = 1

// Database wraps a GORM database instance and provides high-level
// operations for panel data management. It encapsulates all database
// interactions for server nodes, users, ad configuration, and metrics.
type Database struct {
	*gorm.DB
}

// New creates a new Database instance and establishes a SQLite connection.
// It automatically runs migrations for all defined models. The dbPath
// parameter is a SQLite DSN; ":memory:" keeps the whole panel in memory,
// which is the default deployment mode.
// Returns a Database instance or an error if connection or migration fails.
func New(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&ServerNode{}, &User{}, &AdConfig{}, &SystemMetric{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

// CreateServerNode inserts a new server node record into the database.
// Returns an error if the creation fails due to validation or constraints.
func (db *Database) CreateServerNode(node *ServerNode) error {
	return db.Create(node).Error
}

// GetServerNode retrieves a server node by its unique ID.
// Returns the node record and an error if the node is not found.
func (db *Database) GetServerNode(id string) (*ServerNode, error) {
	var node ServerNode
	err := db.First(&node, "id = ?", id).Error
	return &node, err
}

// ListServerNodes retrieves all server node records ordered by creation time.
// Returns a slice of all nodes and an error if the query fails.
func (db *Database) ListServerNodes() ([]ServerNode, error) {
	var nodes []ServerNode
	err := db.Order("created_at").Find(&nodes).Error
	return nodes, err
}

// UpdateServerNode updates an existing server node record.
// The node parameter must have the ID field set to identify the record.
// Returns an error if the update fails.
func (db *Database) UpdateServerNode(node *ServerNode) error {
	return db.Save(node).Error
}

// DeleteServerNode removes a server node record by ID.
// Deleting an unknown ID is a no-op and returns no error.
func (db *Database) DeleteServerNode(id string) error {
	return db.Delete(&ServerNode{}, "id = ?", id).Error
}

// CountServerNodes returns the number of nodes currently in the given status.
func (db *Database) CountServerNodes(status NodeStatus) (int64, error) {
	var count int64
	err := db.Model(&ServerNode{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CreateUser inserts a new user record into the database.
// Returns an error if the creation fails due to validation or constraints.
func (db *Database) CreateUser(user *User) error {
	return db.Create(user).Error
}

// GetUser retrieves a user by their unique ID.
// Returns the user record and an error if the user is not found.
func (db *Database) GetUser(id string) (*User, error) {
	var user User
	err := db.First(&user, "id = ?", id).Error
	return &user, err
}

// ListUsers retrieves all user records ordered by creation time.
// Returns a slice of all users and an error if the query fails.
func (db *Database) ListUsers() ([]User, error) {
	var users []User
	err := db.Order("created_at").Find(&users).Error
	return users, err
}

// UpdateUser updates an existing user record in the database.
// The user parameter must have the ID field set to identify the record.
// Returns an error if the update fails.
func (db *Database) UpdateUser(user *User) error {
	return db.Save(user).Error
}

// DeleteUser removes a user record from the database by ID.
// Deleting an unknown ID is a no-op and returns no error.
func (db *Database) DeleteUser(id string) error {
	return db.Delete(&User{}, "id = ?", id).Error
}

// SetUsersStatus updates the status of every user whose ID is in ids.
// IDs that match no record are skipped. Returns the number of rows changed.
func (db *Database) SetUsersStatus(ids []string, status UserStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.Model(&User{}).Where("id IN ?", ids).Update("status", status)
	return res.RowsAffected, res.Error
}

// SetUsersSubscription updates the subscription plan of every user whose
// ID is in ids. Returns the number of rows changed.
func (db *Database) SetUsersSubscription(ids []string, plan Plan) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.Model(&User{}).Where("id IN ?", ids).Update("subscription", plan)
	return res.RowsAffected, res.Error
}

// DeleteUsers removes every user whose ID is in ids.
// Returns the number of rows deleted.
func (db *Database) DeleteUsers(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.Where("id IN ?", ids).Delete(&User{})
	return res.RowsAffected, res.Error
}

// CountUsers returns the number of users currently in the given status.
func (db *Database) CountUsers(status UserStatus) (int64, error) {
	var count int64
	err := db.Model(&User{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// GetAdConfig retrieves the singleton ad configuration record.
// Returns the configuration and an error if it has not been seeded yet.
func (db *Database) GetAdConfig() (*AdConfig, error) {
	var config AdConfig
	err := db.First(&config, "id = ?", adConfigID).Error
	return &config, err
}

// SaveAdConfig replaces the singleton ad configuration record wholesale.
// Returns an error if the write fails.
func (db *Database) SaveAdConfig(config *AdConfig) error {
	config.ID = adConfigID
	return db.Save(config).Error
}

// AppendMetric appends one metric sample to the series.
// Samples are append-only; existing rows are never rewritten.
func (db *Database) AppendMetric(sample *SystemMetric) error {
	return db.Create(sample).Error
}

// ListMetrics retrieves the full metric series in insertion order.
// Returns the samples and an error if the query fails.
func (db *Database) ListMetrics() ([]SystemMetric, error) {
	var samples []SystemMetric
	err := db.Order("id").Find(&samples).Error
	return samples, err
}
