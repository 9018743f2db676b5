package commands

// Flags holds global flag values shared by every command. Values are bound
// by the root command and populated before any action runs.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Quiet      bool
}
