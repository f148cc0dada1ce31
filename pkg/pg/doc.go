// Package pg connects to the platform database - the shared store holding
// the tenant_infrastructure table - and applies its embedded schema
// migrations. Tenant-dedicated databases are reached through the endpoints
// the registry resolves, not through this package.
package pg
