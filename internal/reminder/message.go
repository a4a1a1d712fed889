package reminder

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime12h converts a clinic time string like "13:09:00" to "1:09 PM".
// Malformed input falls back to midnight, matching how an unset time slot
// is announced.
func FormatTime12h(t string) string {
	parts := strings.Split(t, ":")
	hour, minute := 0, 0
	if len(parts) >= 2 {
		if h, err := strconv.Atoi(parts[0]); err == nil {
			hour = h
		}
		if m, err := strconv.Atoi(parts[1]); err == nil {
			minute = m
		}
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, period)
}

// RenderMessage builds the SMS text for one reminder. The reason, when
// present, is appended as a suffix so the owner knows what the visit is for.
func RenderMessage(typ Type, ownerName, petName, time12h, reason string) string {
	var msg string
	switch typ {
	case TypeSameDay:
		msg = fmt.Sprintf("Hi %s, this is PURRFECTCARE reminding you of %s's scheduled appointment TODAY at %s. See you!", ownerName, petName, time12h)
	default:
		msg = fmt.Sprintf("Hi %s, this is PURRFECTCARE. Just a friendly reminder that %s has an appointment TOMORROW at %s.", ownerName, petName, time12h)
	}
	if r := strings.TrimSpace(reason); r != "" {
		msg += " Reason: " + r + "."
	}
	return msg
}
