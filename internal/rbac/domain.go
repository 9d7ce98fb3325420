package rbac

import "time"

// Role represents a high-level permission grouping.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission represents an atomic capability.
type Permission struct {
	ID          int64
	Name        string
	Description string
}

// Known permission names. Seed data creates one role per functional area.
const (
	PermDashboardView   = "dashboard.view"
	PermProcurementView = "procurement.view"
	PermProcurementEdit = "procurement.edit"
	PermInventoryView   = "inventory.view"
	PermInventoryEdit   = "inventory.edit"
	PermMasterView      = "master.view"
	PermMasterEdit      = "master.edit"
	PermRBACView        = "rbac.view"
	PermRBACEdit        = "rbac.edit"
)
