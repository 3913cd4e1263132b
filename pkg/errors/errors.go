package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents fetch failures and non-200 responses
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRobots represents URLs disallowed by robots.txt
	ErrorTypeRobots ErrorType = "robots"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeExport represents export file errors
	ErrorTypeExport ErrorType = "export"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError is an error raised by the collaborators around extraction.
// Extraction itself never fails.
type ScrapeError struct {
	Type    ErrorType
	Site    string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	site := e.Site
	if site == "" {
		site = "-"
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, site, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, site, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsSkippable reports whether the failure affects only the current page or
// article, so the run can continue with the next one.
func (e *ScrapeError) IsSkippable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeParsing, ErrorTypeRobots, ErrorTypeCache:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, site, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Site:    site,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(site, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, site, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(site, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, site, message, err)
}

// NewRobots creates an error for a URL disallowed by robots.txt
func NewRobots(site, url string) *ScrapeError {
	return New(ErrorTypeRobots, site, fmt.Sprintf("disallowed by robots.txt: %s", url), nil)
}

// NewCache creates a new cache error
func NewCache(site, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, site, message, err)
}

// NewExport creates a new export error
func NewExport(message string, err error) *ScrapeError {
	return New(ErrorTypeExport, "", message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(site, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, site, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
