package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-RelDate/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go RelDate"
	AppID             = "com.github.tartampluch.go-reldate"
	KeyringService    = "com.github.tartampluch.go-reldate"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.toml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags, Commands & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagConfig  = "config"
	FlagRef     = "ref"
	FlagLang    = "lang"
	FlagJSON    = "json"
	FlagOutput  = "o"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescConfig  = "Path to the TOML settings file"
	FlagDescRef     = "Reference date (YYYY-MM-DD), defaults to today"
	FlagDescLang    = "Language tag selecting messages and week numbering"
	FlagDescJSON    = "Description as a JSON array or object"
	FlagDescOutput  = "Write the feed to this file instead of stdout"

	CmdResolve  = "resolve"
	CmdFeed     = "feed"
	CmdServe    = "serve"
	CmdPassword = "password"

	// ArgAbsent marks an omitted slot on the resolve command line.
	ArgAbsent = "-"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgUsage         = "usage: reldate [-version] [-debug] [-config file] command [args]\n" +
		"  resolve [-ref YYYY-MM-DD] [-lang tag] [-json description] [--] year month day [week]\n" +
		"      \"-\" marks an absent slot; put \"--\" before a negative first value: resolve -- -1 0 0\n" +
		"  feed [-o file]\n" +
		"  serve\n" +
		"  password user\n"
)

// -----------------------------------------------------------------------------
// Relative Date Descriptions
// -----------------------------------------------------------------------------

const (
	// Field keys of a keyed description record, also the order of a sequence.
	FieldYear  = "year"
	FieldMonth = "month"
	FieldDay   = "day"
	FieldWeek  = "week"

	// DayLast selects the last day of the month in the day field.
	DayLast = "last"

	// SequenceLength is the minimum length of an ordered description.
	SequenceLength = 4

	DaysPerWeek = 7
)

// -----------------------------------------------------------------------------
// Rule Files
// -----------------------------------------------------------------------------

const (
	FormatYAML = "yaml"
	FormatJSON = "json"

	ExtYAML = ".yaml"
	ExtYML  = ".yml"
	ExtJSON = ".json"

	AnchorNone     = ""
	AnchorBirthday = "birthday"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyEvtSummary         = "event_summary"          // Requires Name
	TKeyEvtSummaryBirthday = "event_summary_birthday" // Requires Name, Contact
	TKeyResolved           = "msg_resolved"           // Requires Date
	TKeyFeedStatus         = "feed_status"            // Requires Count > 0
	TKeyFeedStatusZero     = "feed_status_zero"

	TKeyErrInputKind   = "err_input_kind"
	TKeyErrYear        = "err_year"
	TKeyErrDay         = "err_day"
	TKeyErrMonthOrWeek = "err_month_or_week"
	TKeyErrConflict    = "err_month_and_week"
	TKeyErrLastOfWeek  = "err_last_day_of_week"
	TKeyErrReference   = "err_reference"
)

// SupportedLanguages defines the list of bundled languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr", "nl"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18081"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultLeapYear      = 2000 // Leap year fallback for dates like --02-29
	DefaultReminderValue = 1
	UIDSalt              = "go-reldate-v1-" // Salt for deterministic UID generation
	DisabledInterval     = 0

	// ISO week numbering: weeks start on Monday, week 1 holds January 4th.
	ISOMinDaysInFirstWeek = 4
	// North American week numbering: weeks start on Sunday, week 1 holds January 1st.
	USMinDaysInFirstWeek = 1
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISOTimePrefix     = "T"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go RelDate//Engine//EN"
	ICalCalName   = "Relative Dates"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goreldate"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & Identifiers
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteResolve        = "/resolve"
	AddrSeparator       = ":"

	QueryRef  = "ref"
	QueryLang = "lang"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderAccept          = "Accept"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"

	// Accept headers sent when downloading sources.
	AcceptRules = "application/yaml, application/json;q=0.9, text/plain;q=0.5"
	AcceptVCard = "text/vcard, text/x-vcard;q=0.9, text/plain;q=0.5"

	// Media types of rule files. A "+json" or "+yaml" suffix also counts.
	MediaTypeJSON     = "application/json"
	MediaTypeTextJSON = "text/json"
	MediaTypeYAML     = "application/yaml"
	MediaTypeXYAML    = "application/x-yaml"
	MediaTypeTextYAML = "text/yaml"
	MediaSuffixJSON   = "+json"
	MediaSuffixYAML   = "+yaml"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	// Resolution errors. Every message starts with "invalid".
	ErrInvalidInputKind         = "invalid input type"
	ErrInvalidYear              = "invalid year"
	ErrInvalidDay               = "invalid day"
	ErrInvalidMonthOrWeek       = "invalid month or week"
	ErrConflictingMonthAndWeek  = "invalid input: month and week cannot be combined"
	ErrUnsupportedLastDayOfWeek = "invalid day: \"last\" day of week not supported"

	ErrRuleName       = "rule has no name"
	ErrRuleDuplicate  = "duplicate rule name"
	ErrRuleAnchor     = "unknown rule anchor"
	ErrRuleFormat     = "unsupported rule file format"
	ErrRuleDecode     = "failed to decode rule file"
	ErrRulesEmpty     = "rule file defines no rules"
	ErrContactsSource = "birthday rules need a contacts source"

	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrReminderUnit     = "configuration error: unsupported reminder unit"
	ErrReminderDir      = "configuration error: unsupported reminder direction"
	ErrReminderTrigger  = "configuration error: invalid reminder trigger"
	ErrIntervalNegative = "configuration error: refresh interval must not be negative"
	ErrWeekStart        = "configuration error: unsupported week start"
	ErrSettingsDecode   = "failed to decode settings file"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrRulesSource      = "failed to read rule file"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrConfigDir        = "could not determine user config dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrPasswordRead     = "failed to read password"
	ErrPasswordStore    = "failed to store password in keyring"
	ErrUnknownCommand   = "unknown command"
	ErrUsage            = "wrong number of arguments"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary         = "%s"
	FallbackSummaryBirthday = "%s (%s)"
	FallbackFeedDefault     = "%d occurrences today"
	FallbackName            = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted   = "Synchronization started..."
	MsgSyncFailed    = "Synchronization failed. Check logs."
	MsgSyncReq       = "Sync requested"
	MsgWorkerStart   = "Background worker started"
	MsgWorkerStop    = "Worker stopping due to context cancellation"
	MsgUpdateSync    = "Updating sync interval"
	MsgAppStop       = "Application stopped gracefully"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedRule   = "Skipping rule that failed to resolve"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgResolved      = "Description resolved"
	MsgResolveFailed = "Description rejected"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgPassStored    = "Password stored in keyring"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgOccurToday    = "Occurrence found today"
	MsgSettingsNone  = "No settings file, using defaults"
	MsgFetchStart    = "Downloading source"
	MsgFetchStatus   = "Source server returned error status"
	MsgFetchDone     = "Source download started"
	MsgPasswordPromt = "Password for %s: "
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"

	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyRules     = "rules"
	LogKeyEvents    = "events"
	LogKeyToday     = "occurrences_today"
	LogKeyContacts  = "contacts"
	LogKeySizeBytes = "size_bytes"
	LogKeyMedia     = "content_type"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyRule      = "rule"
	LogKeyDate      = "date"
	LogKeyRef       = "reference"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompDaemon  = "daemon"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompConfig  = "config"
)
