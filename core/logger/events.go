package logger

// LogEntry is a single logged event. Exactly one of the event fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionId       string `json:"session_id,omitempty"`

	Line           *Line           `json:"line,omitempty"`
	SyntaxError    *SyntaxError    `json:"syntax_error,omitempty"`
	Pipeline       *Pipeline       `json:"pipeline,omitempty"`
	Heredoc        *Heredoc        `json:"heredoc,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	Builtin        *Builtin        `json:"builtin,omitempty"`
}

// LogType is implemented by every event type.
type LogType interface {
	setOn(le *LogEntry)
}

// GetLogType returns the event held by the entry or nil.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.Line != nil:
		return le.Line
	case le.SyntaxError != nil:
		return le.SyntaxError
	case le.Pipeline != nil:
		return le.Pipeline
	case le.Heredoc != nil:
		return le.Heredoc
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.Builtin != nil:
		return le.Builtin
	}
	return nil
}

// GetSessionId returns the session the entry belongs to.
func (le *LogEntry) GetSessionId() string {
	if le == nil {
		return ""
	}
	return le.SessionId
}

// Line is an input line read by the shell.
type Line struct {
	Text string `json:"text"`
}

func (e *Line) setOn(le *LogEntry) { le.Line = e }

// SyntaxError is a line rejected by the validator or tree builder.
type SyntaxError struct {
	Text    string `json:"text"`
	Message string `json:"message"`
}

func (e *SyntaxError) setOn(le *LogEntry) { le.SyntaxError = e }

// Pipeline is a completed pipeline.
type Pipeline struct {
	// Commands holds the expanded argv of each stage, joined by spaces.
	Commands []string `json:"commands"`
	Status   int      `json:"status"`
}

func (e *Pipeline) setOn(le *LogEntry) { le.Pipeline = e }

// Heredoc records a heredoc capture pass.
type Heredoc struct {
	Count       int  `json:"count"`
	Interrupted bool `json:"interrupted,omitempty"`
}

func (e *Heredoc) setOn(le *LogEntry) { le.Heredoc = e }

// UnknownCommand is a command that couldn't be found or executed.
type UnknownCommand struct {
	Command      []string `json:"command"`
	Status       int      `json:"status"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

func (e *UnknownCommand) setOn(le *LogEntry) { le.UnknownCommand = e }

// Builtin is a builtin invocation.
type Builtin struct {
	Command  []string `json:"command"`
	Detached bool     `json:"detached,omitempty"`
}

func (e *Builtin) setOn(le *LogEntry) { le.Builtin = e }
