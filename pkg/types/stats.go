package types

// DashboardStats is the aggregate counters object returned by /shops/stats/.
type DashboardStats struct {
	TotalShops    int `json:"total_shops"`
	ActiveShops   int `json:"active_shops"`
	PendingShops  int `json:"pending_shops"`
	RejectedShops int `json:"rejected_shops"`
	TotalAgents   int `json:"total_agents"`
	ActiveAgents  int `json:"active_agents"`
}
