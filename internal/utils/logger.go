package utils

import (
	"log"
	"strings"
)

// LogEvent prints one line per event: [MODULE] action=... request_id=... msg=...
// Keep msg short; never log passwords, tokens or ID numbers.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
