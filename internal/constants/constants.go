package constants

// Context and session keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyActor  = "actor"
	SessionKeyToken  = "access_token"
)

// SessionCookieName is the name of the cookie that carries the session
const SessionCookieName = "task_session"

// Password policy
const (
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

// Pagination limits (limit/offset style)
const (
	DefaultPageLimit = 40
	MaxPageLimit     = 100
)

// Field limits
const (
	MaxTitleLength = 255
	MaxNotesLength = 500
)

// DefaultDailyHoursCap is the maximum number of hours an employee may log for one date
const DefaultDailyHoursCap = "10.00"

// HoursPrecision is the number of fractional digits accepted for logged hours
const HoursPrecision = 2

// MaxAIGeneratedTasks bounds the number of drafts accepted from the AI service
const MaxAIGeneratedTasks = 20

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"
