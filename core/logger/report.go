package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewBugReport creates an empty BugReport.
func NewBugReport() *BugReport {
	return &BugReport{
		SyntaxErrors:    NewPathCounter("message"),
		UnknownCommands: NewPathCounter("command", "status", "error"),
	}
}

// BugReport pulls events that point at mistakes made by users of the shell.
type BugReport struct {
	LogEntries int `json:"log_entries"`

	SyntaxErrors    *PathCounter `json:"syntax_errors"`
	UnknownCommands *PathCounter `json:"unknown_commands"`
}

func (r *BugReport) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SyntaxError:
		r.SyntaxErrors.Increment(event.Message)
	case *UnknownCommand:
		name := ""
		if len(event.Command) > 0 {
			name = event.Command[0]
		}
		r.UnknownCommands.Increment(name, strconv.Itoa(event.Status), event.ErrorMessage)
	}
}

// SessionReport groups the lines typed in each session.
type SessionReport struct {
	// Map of sessionID -> interactions
	sessions map[string]*Session
}

// Session summarizes one shell session.
type Session struct {
	LogEntries int      `json:"log_entries"`
	Lines      []string `json:"lines"`
	Failures   int      `json:"failures"`
}

func (s *Session) Update(le *LogEntry) {
	s.LogEntries++

	switch event := le.GetLogType().(type) {
	case *Line:
		s.Lines = append(s.Lines, event.Text)
	case *Pipeline:
		if event.Status != 0 {
			s.Failures++
		}
	case *SyntaxError:
		s.Failures++
	}
}

func (i *SessionReport) init() {
	if i.sessions == nil {
		i.sessions = make(map[string]*Session)
	}
}

// MarshalJSON implemnts custom JSON marshaler.
func (i *SessionReport) MarshalJSON() ([]byte, error) {
	i.init()

	return json.Marshal(i.sessions)
}

func (i *SessionReport) Update(le *LogEntry) {
	i.init()

	sessionID := le.GetSessionId()
	if sessionID == "" {
		return
	}
	report, ok := i.sessions[sessionID]
	if !ok {
		report = &Session{}
		i.sessions[sessionID] = report
	}

	report.Update(le)
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Lines          LineReport           `json:"line_report"`
	SyntaxError    SyntaxErrorReport    `json:"syntax_error_report"`
	Pipeline       PipelineReport       `json:"pipeline_report"`
	Heredoc        HeredocReport        `json:"heredoc_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	Builtin        BuiltinReport        `json:"builtin_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *Line:
		r.Lines.update(event)
	case *SyntaxError:
		r.SyntaxError.update(event)
	case *Pipeline:
		r.Pipeline.update(event)
	case *Heredoc:
		r.Heredoc.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *Builtin:
		r.Builtin.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type LineReport struct {
	Count int `json:"count"`
	Blank int `json:"blank"`
}

func (r *LineReport) update(l *Line) {
	r.Count++
	if strings.TrimSpace(l.Text) == "" {
		r.Blank++
	}
}

type SyntaxErrorReport struct {
	Messages StrCounter `json:"messages"`
}

func (r *SyntaxErrorReport) update(e *SyntaxError) {
	r.Messages.Increment(e.Message)
}

type PipelineReport struct {
	Count int `json:"count"`
	// Number of stages in each pipeline and their counts.
	Lengths StrCounter `json:"lengths"`
	// Exit statuses and their counts.
	Statuses StrCounter `json:"statuses"`
	// Name of the command run by each stage.
	CommandNames StrCounter `json:"command_names"`
}

func (r *PipelineReport) update(p *Pipeline) {
	r.Count++
	r.Lengths.Increment(strconv.Itoa(len(p.Commands)))
	r.Statuses.Increment(strconv.Itoa(p.Status))
	for _, cmd := range p.Commands {
		if fields := strings.Fields(cmd); len(fields) > 0 {
			r.CommandNames.Increment(fields[0])
		}
	}
}

type HeredocReport struct {
	Count       int `json:"count"`
	Interrupted int `json:"interrupted"`
}

func (r *HeredocReport) update(h *Heredoc) {
	r.Count += h.Count
	if h.Interrupted {
		r.Interrupted++
	}
}

type UnknownCommandReport struct {
	CommandNames    StrCounter `json:"command_names"`
	CommandStatuses StrCounter `json:"command_statuses"`
}

func (r *UnknownCommandReport) update(logEntry *UnknownCommand) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}

	r.CommandStatuses.Increment(strconv.Itoa(logEntry.Status))
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
	Detached     int        `json:"detached"`
}

func (r *BuiltinReport) update(b *Builtin) {
	if len(b.Command) > 0 {
		r.CommandNames.Increment(b.Command[0])
	}
	if b.Detached {
		r.Detached++
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of strings seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
