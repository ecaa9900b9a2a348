package logging

import (
	"io"
	"path"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger: JSON output with short caller
// locations and the given level. Unknown levels fall back to info.
func Init(out io.Writer, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	logrus.SetOutput(out)
	logrus.SetLevel(lvl)
	logrus.SetReportCaller(true)
	logrus.SetFormatter(&logrus.JSONFormatter{
		CallerPrettyfier: func(f *runtime.Frame) (function string, file string) {
			function = path.Base(f.Function)
			file = path.Base(f.File) + ":" + strconv.Itoa(f.Line)
			return
		},
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
}

// Module returns a logger tagged with the module field.
func Module(name string) *logrus.Entry {
	return logrus.WithField("module", name)
}
