package report

import (
	"github.com/atotto/clipboard"
)

// Sink receives exported text.
type Sink interface {
	Write(text string) error
}

// Clipboard is the system clipboard.
type Clipboard struct{}

func (Clipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Export writes text to the sink and reports the outcome as a notification
// and on the terminal.
func Export(sink Sink, n *Notifier, text string) error {
	err := sink.Write(text)
	if err != nil {
		n.Notify("Export failed", "Could not copy the invoice to the clipboard")
		return err
	}

	n.Notify("Invoice copied", "Paste it into your spreadsheet")

	return nil
}
