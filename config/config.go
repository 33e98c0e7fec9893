package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/MegatronPika/question-system-v3/utils"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port string

	QuestionsFile string
	UserDataFile  string

	// Optional persistent-volume mount (e.g. /data on Railway). Empty
	// disables the volume destination.
	VolumePath string
	// Name of the env var holding a JSON snapshot of the user-data
	// document, used as a read-only fallback on ephemeral filesystems.
	SnapshotEnvVar string

	CacheTTL time.Duration

	BackupDir      string
	BackupSchedule string
	BackupKeep     int
	BackupKey      string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           utils.GetEnvOrDefault("PORT", "8080"),
		QuestionsFile:  utils.GetEnvOrDefault("QUESTIONS_FILE", "full_questions.json"),
		UserDataFile:   utils.GetEnvOrDefault("USER_DATA_FILE", "user_data.json"),
		VolumePath:     utils.GetEnvOrDefault("DATA_VOLUME_PATH", ""),
		SnapshotEnvVar: utils.GetEnvOrDefault("USER_DATA_ENV_VAR", "USER_DATA_JSON"),
		CacheTTL:       time.Duration(utils.GetEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		BackupDir:      utils.GetEnvOrDefault("BACKUP_DIR", "backups"),
		BackupSchedule: utils.GetEnvOrDefault("BACKUP_SCHEDULE", "@daily"),
		BackupKeep:     utils.GetEnvInt("BACKUP_KEEP", 10),
		BackupKey:      utils.GetEnvOrDefault("BACKUP_KEY", ""),
	}
}
