package constants

import "time"

const (
	AppName            = "aura"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/aura"
	DefaultDBPath      = "~/.config/aura/aura.db"
	DefaultConfigFile  = "config.yaml"
	Version            = "v0.1.0"

	// EnvDBConnection overrides the database location
	EnvDBConnection = "AURA_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Habit defaults
	DefaultIconSymbol = "star.fill"
	DefaultHexColor   = "7F5AF0"
	DefaultReminder   = "09:00"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "aura-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "aura-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.aura"
	TrayExecutablePrefix   = "aura-tray"
	ReminderTitle          = "✨ Time for your Aura"
	ReminderBodyFormat     = "It's time for: %s"
	DefaultReminderTick    = time.Minute

	// Summary constants
	DefaultWidgetLimit = 3
	RefreshSignalName  = ".aura-refresh"
	ChartDays          = 7
)

// Palette is the set of colors offered when creating a habit.
var Palette = []string{"7F5AF0", "2CB67D", "E45858", "F2C94C", "3DA9FC", "FF8C42"}

// Icons is the set of symbols offered when creating a habit.
var Icons = []string{"star.fill", "flame.fill", "drop.fill", "figure.run", "book.fill", "moon.fill", "heart.fill", "leaf.fill"}
