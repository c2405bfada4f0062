package cli

import (
	"fmt"
	"os"

	"github.com/klondike-tools/dash/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create a dash.yml or pass --config.\n")
		return err

	case errors.ErrCodeNetwork:
		fmt.Fprintf(os.Stderr, "❌ Could not reach the tracker server.\n")
		fmt.Fprintf(os.Stderr, "Check the server.url setting in dash.yml and that the server is running.\n")
		return err

	case errors.ErrCodeServerRejected:
		if dashErr, ok := err.(*errors.DashError); ok {
			fmt.Fprintf(os.Stderr, "❌ %s\n", dashErr.Message)
			if status, ok := dashErr.Details["status"]; ok {
				fmt.Fprintf(os.Stderr, "The server responded with HTTP %v.\n", status)
			}
		} else {
			fmt.Fprintf(os.Stderr, "❌ The server rejected the request.\n")
		}
		return err

	case errors.ErrCodeMalformed:
		fmt.Fprintf(os.Stderr, "❌ The server sent a response this client could not understand.\n")
		fmt.Fprintf(os.Stderr, "The server may be a newer, incompatible version.\n")
		return err

	case errors.ErrCodeMutationInFlight:
		if dashErr, ok := err.(*errors.DashError); ok {
			fmt.Fprintf(os.Stderr, "❌ A change to '%v' is still pending; try again in a moment.\n",
				dashErr.Details["entityId"])
		}
		return err

	case errors.ErrCodeConfigValidation, errors.ErrCodeConfigInvalid:
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'dash config validate' for details.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		if h.Verbose {
			if dashErr, ok := err.(*errors.DashError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", dashErr.ToJSON())
			}
		}
		return err
	}
}
