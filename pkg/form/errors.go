package form

import "strings"

// NonFieldErrors is the key under which form level errors are stored.
const NonFieldErrors = "__all__"

// Messages used for per-input cleaning failures.
const (
	MsgRequired       = "This field is required."
	MsgInvalidEmail   = "Enter a valid email address."
	MsgInvalidURL     = "Enter a valid URL."
	MsgInvalidDate    = "Enter a valid date."
	MsgInvalidInteger = "Enter a whole number."
	MsgInvalidChoice  = "Select a valid choice. %s is not one of the available choices."
)

// appendMessages trims, drops empty entries and skips messages already
// present, preserving order.
func appendMessages(existing []string, extras ...string) []string {
	out := existing
	for _, message := range extras {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" || containsString(out, trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
