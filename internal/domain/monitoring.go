package domain

// MonitoringConfig describes one gift monitoring setup on the marketplace.
type MonitoringConfig struct {
	ID              int                 `json:"id,omitempty"`
	GiftName        string              `json:"gift_name"`
	AccountInterval int                 `json:"account_interval"`
	MaxBatches      int                 `json:"max_batches"`
	IsActive        bool                `json:"is_active"`
	Accounts        []MonitoringAccount `json:"accounts"`
}

// MonitoringAccount is one polling account attached to a monitoring config.
type MonitoringAccount struct {
	UserID   int64 `json:"user_id"`
	IsActive bool  `json:"is_active"`
}
