package domain

// SiteManager is an IT contact responsible for handouts at one site.
type SiteManager struct {
	ID          int32  `json:"id"`
	Site        string `json:"site"`
	UserAlias   string `json:"user_alias"`
	SlackUserID string `json:"slack_user_id"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	CreatedOn   string `json:"created_at"`
}

type SiteManagerStats struct {
	Site              string `json:"site"`
	TotalManagers     int32  `json:"total_managers"`
	ActiveManagers    int32  `json:"active_managers"`
	ManagersWithSlack int32  `json:"managers_with_slack"`
}
