package domain

import "time"

// ModuleActivity — агрегат по одному модулю для дашборда.
type ModuleActivity struct {
	Module     Module    `json:"module"`
	Actions    int       `json:"actions"`
	LastAction string    `json:"last_action,omitempty"`
	LastAt     time.Time `json:"last_at,omitzero"`
}

// DashboardStats — сводка активности всей консоли.
// Считается на лету из Audit Ledger, отдельного хранилища нет.
type DashboardStats struct {
	TotalActions int              `json:"total_actions"`
	Modules      []ModuleActivity `json:"modules"`
}
