package reminder

import (
	"fmt"
	"time"

	"github.com/gatorpickup/pickup/internal/push"
)

// ComputeWindow returns [now+lead, now+lead+width). With align set, now is first
// truncated to a multiple of width so late or early ticks still cover adjacent windows.
func ComputeWindow(now time.Time, lead, width time.Duration, align bool) Window {
	if align && width > 0 {
		now = now.Truncate(width)
	}
	start := now.Add(lead)
	return Window{Start: start, End: start.Add(width)}
}

// BuildMessages renders one push message per target.
func BuildMessages(targets []Target, lead time.Duration) []push.Message {
	messages := make([]push.Message, 0, len(targets))
	for _, t := range targets {
		location := "TBD"
		if t.LocationName != nil && *t.LocationName != "" {
			location = *t.LocationName
		}
		messages = append(messages, push.Message{
			To:    t.Token,
			Title: fmt.Sprintf("%s in %d min!", t.Sport.Label(), int(lead.Minutes())),
			Body:  fmt.Sprintf("Your game at %s starts soon. Don't forget your gear!", location),
			Data:  map[string]string{"gameId": t.GameID},
		})
	}
	return messages
}
