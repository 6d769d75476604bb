package constants

const (
	// Session and request context
	SessionCookieName = "officedesk_session"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyTask    = "task"

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MinPasswordLength = 8

	// Storage keys
	StorageKeyUsers          = "users"
	StorageKeyClients        = "clients"
	StorageKeyTaskTypes      = "taskTypes"
	StorageKeyTasks          = "tasks"
	StorageKeyNotifications  = "notifications"
	StorageKeyCurrentUser    = "currentUser"
	StorageKeyChatPrefix     = "chat_"
	StorageKeyLastReadPrefix = "chat_lastRead_"

	// Chat notification preview length in runes
	MessagePreviewLength = 50

	MaxAIGeneratedTasks = 20

	UnknownUserName   = "Unknown User"
	UnknownClientName = "Unknown Client"
	UnknownTypeName   = "Unknown Type"
)
