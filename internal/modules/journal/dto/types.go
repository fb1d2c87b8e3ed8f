package dto

type WriteOutput struct {
	Path    string
	Date    string
	Created bool
}

type PreviewOutput struct {
	Date     string
	Markdown string
	// Rendered is Markdown styled for a terminal.
	Rendered string
}
