package shared

const (
	UserID   = "user_id"
	DeviceID = "device_id"

	// Local (device) store keys. Same keys the web client used for its
	// browser storage, so a device database migrates 1:1.
	ProgressKey   = "aws_restart_progress"
	OnboardingKey = "aws_restart_config"

	ModuleTypeKC            = "knowledge_checks"
	ModuleTypeLab           = "labs"
	ModuleTypeExitTicket    = "exit_tickets"
	ModuleTypeDemonstration = "demonstrations"
	ModuleTypeActivity      = "activities"

	// Backend a progress read was served from.
	SourceLocal = "local"
	SourceCloud = "cloud"

	// Leaderboard activity windows.
	TimeRangeAllTime = "all-time"
	TimeRangeWeekly  = "weekly"
	TimeRangeMonthly = "monthly"
)
