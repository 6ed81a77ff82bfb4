package touchtable

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	logMu     sync.RWMutex
	logger    = zerolog.Nop()
	debugMode bool
)

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

// SetDebugMode enables or disables verbose tracing of claims, releases and
// session transitions at debug level.
func SetDebugMode(enabled bool) {
	logMu.Lock()
	debugMode = enabled
	logMu.Unlock()
}

func log() *zerolog.Logger {
	logMu.RLock()
	l := logger
	logMu.RUnlock()
	return &l
}

func debugEnabled() bool {
	logMu.RLock()
	defer logMu.RUnlock()
	return debugMode
}

// componentLog returns the package logger tagged with a component name.
func componentLog(component string) zerolog.Logger {
	return log().With().Str("component", component).Logger()
}

// traceSession logs a session transition when debug mode is on.
func traceSession(component, transition string, fingers []int) {
	if !debugEnabled() {
		return
	}
	l := componentLog(component)
	l.Debug().Str("transition", transition).Ints("fingers", fingers).Msg("session")
}

// diagnostic emits a warning at most once per instance. Recognizers embed it
// to report missing collaborators without flooding the log every tick.
type diagnostic struct {
	once sync.Once
}

func (d *diagnostic) warn(component, msg string) {
	d.once.Do(func() {
		l := componentLog(component)
		l.Warn().Msg(msg)
	})
}
