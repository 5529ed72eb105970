package output

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If INKWELL_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.inkwell/logs/inkwell.log
func GetLogFilePath() string {
	if customPath := os.Getenv("INKWELL_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "inkwell.log"
	}

	return filepath.Join(homeDir, ".inkwell", "logs", "inkwell.log")
}
