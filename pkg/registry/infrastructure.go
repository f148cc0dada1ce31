package registry

import (
	"fmt"
	"time"
)

// Status is the provisioning state of an organization's infrastructure.
// Transitions are monotonic in practice (provisioning -> active -> suspended)
// but the registry does not enforce ordering; it reacts to whatever the
// lookup store currently reports.
type Status string

const (
	StatusProvisioning Status = "provisioning"
	StatusActive       Status = "active"
	StatusSuspended    Status = "suspended"
)

// SearchConfigPort is the well-known config/management port of a dedicated
// search instance, fixed relative to its data port.
const SearchConfigPort = 19071

// Infrastructure is one organization's stored infrastructure binding.
// Endpoint URLs are always derived from host/port, never stored.
type Infrastructure struct {
	OrganizationID  string
	DatabaseHost    string
	DatabasePort    int
	DatabaseName    string
	SearchHost      string
	SearchPort      int
	Status          Status
	ProvisionedAt   *time.Time
	LastHealthCheck *time.Time
	Metadata        map[string]any
}

// DatabaseURL returns the connection URL template for the organization's
// dedicated database. Credentials are injected at connection time.
func (i *Infrastructure) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%d/%s", i.DatabaseHost, i.DatabasePort, i.DatabaseName)
}

// SearchURL returns the data-plane endpoint of the organization's dedicated
// search instance.
func (i *Infrastructure) SearchURL() string {
	return fmt.Sprintf("http://%s:%d", i.SearchHost, i.SearchPort)
}

// SearchConfigURL returns the config-server endpoint of the organization's
// dedicated search instance.
func (i *Infrastructure) SearchConfigURL() string {
	return fmt.Sprintf("http://%s:%d", i.SearchHost, SearchConfigPort)
}

func (i *Infrastructure) IsActive() bool       { return i.Status == StatusActive }
func (i *Infrastructure) IsProvisioning() bool { return i.Status == StatusProvisioning }
func (i *Infrastructure) IsSuspended() bool    { return i.Status == StatusSuspended }
