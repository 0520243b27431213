package auth

const (
	PermFacilitiesRead    = "facilities.read"
	PermFacilitiesWrite   = "facilities.write"
	PermInterpretersRead  = "interpreters.read"
	PermInterpretersWrite = "interpreters.write"
	PermJobsRead          = "jobs.read"
	PermJobsWrite         = "jobs.write"
	PermBillingRead       = "billing.read"
	PermBillingWrite      = "billing.write"
	PermSettingsWrite     = "settings.write"
	PermAuditRead         = "audit.read"
	PermMetricsRead       = "metrics.read"
)

var DefaultPermissions = []string{
	PermFacilitiesRead,
	PermFacilitiesWrite,
	PermInterpretersRead,
	PermInterpretersWrite,
	PermJobsRead,
	PermJobsWrite,
	PermBillingRead,
	PermBillingWrite,
	PermSettingsWrite,
	PermAuditRead,
	PermMetricsRead,
}

var RolePermissions = map[string][]string{
	RoleScheduler: {
		PermFacilitiesRead,
		PermInterpretersRead,
		PermInterpretersWrite,
		PermJobsRead,
		PermJobsWrite,
	},
	RoleBilling: {
		PermFacilitiesRead,
		PermInterpretersRead,
		PermJobsRead,
		PermBillingRead,
		PermBillingWrite,
	},
	RoleAdmin: DefaultPermissions,
}
