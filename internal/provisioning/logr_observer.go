package provisioning

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/util/tags"
)

// LogrObserver implements Observer on top of a logr.Logger.
type LogrObserver struct {
	logger logr.Logger
	fields map[string]string
}

// NewLogrObserver creates an observer that logs through logger.
func NewLogrObserver(logger logr.Logger) *LogrObserver {
	return &LogrObserver{
		logger: logger,
		fields: make(map[string]string),
	}
}

// NewJSONObserver creates an observer that writes one JSON object per line to w.
func NewJSONObserver(w io.Writer) *LogrObserver {
	logger := funcr.NewJSON(func(obj string) {
		_, _ = fmt.Fprintln(w, obj)
	}, funcr.Options{LogTimestamp: true})
	return NewLogrObserver(logger)
}

// Printf implements Logger.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	fields := make(map[string]string, len(o.fields)+len(event.Fields))
	for k, v := range o.fields {
		fields[k] = v
	}
	for k, v := range event.Fields {
		fields[k] = v
	}

	keysAndValues := make([]interface{}, 0, len(fields)*2+6)
	keysAndValues = append(keysAndValues, "eventType", string(event.Type))
	if event.Phase != "" {
		keysAndValues = append(keysAndValues, "phase", event.Phase)
	}
	if event.Resource != "" {
		keysAndValues = append(keysAndValues, "resource", event.Resource)
	}
	if event.Duration > 0 {
		keysAndValues = append(keysAndValues, "durationSeconds", event.Duration.Seconds())
	}
	for _, k := range tags.SortedKeys(fields) {
		keysAndValues = append(keysAndValues, k, fields[k])
	}

	switch event.Type {
	case EventPhaseFailed, EventResourceFailed, EventValidationError:
		o.logger.Error(nil, event.Message, keysAndValues...)
	default:
		o.logger.Info(event.Message, keysAndValues...)
	}
}

// Progress implements Observer.
func (o *LogrObserver) Progress(phase string, current, total int) {
	o.logger.V(1).Info("progress", "phase", phase, "current", current, "total", total)
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.fields)+len(fields))
	for k, v := range o.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &LogrObserver{
		logger: o.logger,
		fields: newFields,
	}
}
