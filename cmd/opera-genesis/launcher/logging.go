package launcher

import (
	"fmt"
	"io"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

var verbosityLevels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

// makeLogger builds the process logger. With a Sentry DSN, error level
// entries are also reported there.
func makeLogger(cfg LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	if cfg.Verbosity < 0 || cfg.Verbosity >= len(verbosityLevels) {
		return nil, fmt.Errorf("log verbosity %d out of range 0..%d", cfg.Verbosity, len(verbosityLevels)-1)
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(verbosityLevels[cfg.Verbosity])

	switch cfg.Format {
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		hook.Timeout = 5 * time.Second
		hook.StacktraceConfiguration.Enable = true
		log.AddHook(hook)
	}
	return log, nil
}
