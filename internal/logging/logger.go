package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/officedesk/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = logrus.New()

// EventFormatter writes one line per entry with a fresh event id and the
// entry fields in key order.
type EventFormatter struct {
	SystemName string
}

// Format implements the logrus.Formatter interface
func (f *EventFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	fmt.Fprintf(b, "time=%s source=%s level=%s event=%s msg=%q",
		entry.Time.UTC().Format("2006-01-02T15:04:05.000Z"),
		f.SystemName,
		strings.ToUpper(entry.Level.String()),
		uuid.New().String(),
		entry.Message,
	)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}

	if entry.HasCaller() {
		fmt.Fprintf(b, " caller=%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// InitLogger configures the package logger. Output goes to stdout and, when
// cfg.LogFile is set, to a rotated log file as well.
func InitLogger(cfg *config.Config) {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				logrus.Fatalf("Failed to create log directory: %v", err)
			}
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	Logger.SetOutput(out)
	Logger.SetFormatter(&EventFormatter{SystemName: "officedesk"})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
	Logger.SetReportCaller(level >= logrus.DebugLevel)
}
