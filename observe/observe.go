// Package observe is the lifecycle-hook layer for graph execution,
// grounded in the teacher's callbacks package (Handler/CallbackTiming/
// AppendGlobalHandlers) but scaled down to this spec's domain: there is no
// LLM-specific CallbackInput/CallbackOutput, just node and wave
// boundaries plus the planner's unmapped-input report.
package observe

import "github.com/sirupsen/logrus"

// Handler receives lifecycle events from a running Graph. Implementations
// must not block the scheduler for long; do expensive work on a separate
// goroutine if needed.
type Handler interface {
	OnWaveStart(size int)
	OnWaveEnd()
	OnNodeStart(name string)
	OnNodeEnd(name string)
	OnNodeError(name string, err error)
	OnUnmappedInputs(node string, fields []string)
}

var global Handler = NewLogrusHandler(logrus.StandardLogger())

// SetGlobalHandler replaces the process-wide handler every Graph reports
// to. Passing nil disables observation.
func SetGlobalHandler(h Handler) {
	if h == nil {
		global = noopHandler{}
		return
	}
	global = h
}

func FireWaveStart(size int) {
	global.OnWaveStart(size)
}

func FireWaveEnd() {
	global.OnWaveEnd()
}

func FireNodeStart(name string) {
	global.OnNodeStart(name)
}

func FireNodeEnd(name string) {
	global.OnNodeEnd(name)
}

func FireNodeError(name string, err error) {
	global.OnNodeError(name, err)
}

// FireUnmappedInputs reports that the implicit planner found no producer
// for node's fields and promoted them to required graph inputs instead
// (spec.md §4.E step 5).
func FireUnmappedInputs(node string, fields []string) {
	global.OnUnmappedInputs(node, fields)
}

type noopHandler struct{}

func (noopHandler) OnWaveStart(int)                   {}
func (noopHandler) OnWaveEnd()                        {}
func (noopHandler) OnNodeStart(string)                {}
func (noopHandler) OnNodeEnd(string)                  {}
func (noopHandler) OnNodeError(string, error)         {}
func (noopHandler) OnUnmappedInputs(string, []string) {}

// LogrusHandler logs node start/end at debug level and wave start/end at
// trace level, matching the verbosity split the teacher's own callback
// tracing uses; node failures and unmapped inputs are logged at warn level.
type LogrusHandler struct {
	log *logrus.Logger
}

// NewLogrusHandler wraps an existing *logrus.Logger as a Handler.
func NewLogrusHandler(log *logrus.Logger) *LogrusHandler {
	return &LogrusHandler{log: log}
}

func (h *LogrusHandler) OnWaveStart(size int) {
	h.log.WithField("ready", size).Trace("graph: wave start")
}

func (h *LogrusHandler) OnWaveEnd() {
	h.log.Trace("graph: wave end")
}

func (h *LogrusHandler) OnNodeStart(name string) {
	h.log.WithField("node", name).Debug("graph: node start")
}

func (h *LogrusHandler) OnNodeEnd(name string) {
	h.log.WithField("node", name).Debug("graph: node end")
}

func (h *LogrusHandler) OnNodeError(name string, err error) {
	h.log.WithFields(logrus.Fields{"node": name, "error": err}).Warn("graph: node failed")
}

func (h *LogrusHandler) OnUnmappedInputs(node string, fields []string) {
	h.log.WithFields(logrus.Fields{"node": node, "fields": fields}).Warn("graph: unmapped inputs")
}
