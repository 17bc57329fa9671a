package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/aura/internal/logger"
)

var (
	// ErrHabitNotFound is returned when no habit matches an ID or title
	ErrHabitNotFound = errors.New("habit not found")
	// ErrNotInitialized is returned when the database has not been created yet
	ErrNotInitialized = errors.New("storage not initialized, run 'aura init' first")
	// ErrEmptyTitle is returned when a habit is created or renamed without a title
	ErrEmptyTitle = errors.New("habit title cannot be empty")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
