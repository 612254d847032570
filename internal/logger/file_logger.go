package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger represents a file logger for trading activities
type Logger struct {
	session string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logDir  string
	logPath string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
	LogLevelStatus  LogLevel = "STATUS"
)

// NewLogger creates a file logger for a trading session covering the given
// watchlist.
func NewLogger(symbols []string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	session := "trader"
	if len(symbols) > 0 {
		session = strings.ToLower(symbols[0])
		if len(symbols) > 1 {
			session = fmt.Sprintf("%s_plus%d", session, len(symbols)-1)
		}
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", session, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		session: session,
		logFile: file,
		logger:  log.New(file, "", 0),
		logDir:  logDir,
		logPath: logPath,
	}

	l.writeSessionHeader(symbols)

	return l, nil
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader(symbols []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 OPTIONS TRADING SESSION STARTED
================================================================================
Watchlist: %s
Started: %s
Log File: %s
================================================================================
`, strings.Join(symbols, ", "), time.Now().Format("2006-01-02 15:04:05"), l.logPath)

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Trade logs a trading action
func (l *Logger) Trade(format string, args ...interface{}) {
	l.Log(LogLevelTrade, format, args...)
}

// Status logs market status information
func (l *Logger) Status(format string, args ...interface{}) {
	l.Log(LogLevelStatus, format, args...)
}

// LogCycleSummary logs the outcome of one decision cycle
func (l *Logger) LogCycleSummary(cycle int, symbols, signals, executed, rejected int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	summary := fmt.Sprintf(`
[%s] [STATUS] ==================== CYCLE %d COMPLETE ====================
📡 Symbols Fetched: %d | Signals: %d
✅ Executed: %d | ⛔ Rejected: %d
==============================================================`,
		timestamp, cycle, symbols, signals, executed, rejected)

	l.logger.Println(summary)
}

// LogTradeExecution logs trade execution details
func (l *Logger) LogTradeExecution(symbol, right string, strike float64, expiry string, quantity int, fillPrice float64, orderID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	tradeLog := fmt.Sprintf(`
[%s] [TRADE] ==================== ORDER EXECUTED ====================
✅ Order ID: %s
📦 Contract: %s %s %.2f exp %s
🔢 Quantity: %d
💰 Fill: $%.2f
=============================================================`,
		timestamp, orderID, symbol, right, strike, expiry, quantity, fillPrice)

	l.logger.Println(tradeLog)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogWarning logs warning with context
func (l *Logger) LogWarning(context string, message string, args ...interface{}) {
	fullMessage := fmt.Sprintf(context+": "+message, args...)
	l.Warning("%s", fullMessage)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
🛑 OPTIONS TRADING SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
