package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email is a deliberately loose check; real verification happens via the
// confirmation flow, the core only rejects obvious garbage.
func Email(value string) bool {
	value = strings.TrimSpace(value)
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}
	return !strings.ContainsAny(value, " \t\n")
}
