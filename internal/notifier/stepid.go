// Package notifier holds the best-effort post-processing hooks: the real-time
// completion event, the webhook and the owning application's database updater.
package notifier

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// ExtractStepID finds the owning step identifier in an artifact name, either
// from a "step-<id>-..." prefix or from an embedded UUID.
func ExtractStepID(name string) (string, bool) {
	parts := strings.Split(name, "-")
	if len(parts) >= 2 && parts[0] == "step" && parts[1] != "" {
		return parts[1], true
	}

	for _, candidate := range uuidPattern.FindAllString(name, -1) {
		if id, err := uuid.Parse(candidate); err == nil {
			return id.String(), true
		}
	}
	return "", false
}
