package app

// Logger is the event sink shared by the controller and the stores it
// wires.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	SessionID() string
	Close() error
}

// CopyFunc places text on the system clipboard.
type CopyFunc func(text string) error
