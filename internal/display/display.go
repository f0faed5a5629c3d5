package display

// Display is a character display the monitor writes status lines to.
// Lines are numbered from 1.
type Display interface {
	Clear() error
	DisplayLine(text string, line int) error
}
