package application

import (
	"strings"
	"unicode"
)

const chatbotFallback = "Sorry, I didn't get that. Ask me about events, registration, QR passes or your profile."

type chatRule struct {
	keywords []string
	reply    string
}

// Checked in order; the first rule with a matching keyword answers.
var chatRules = []chatRule{
	{[]string{"qr", "pass", "passes", "ticket", "tickets"},
		"After registering, open My Events and pick the event to see your QR pass. Show it at the entrance."},
	{[]string{"register", "registering", "sign up for", "join", "book"},
		"Open an event from the home page and press Register. First-time users complete their student profile once."},
	{[]string{"profile", "registration number", "college email", "branch", "department"},
		"Your profile needs your college email, registration number, branch, department and year of study."},
	{[]string{"verify", "verified", "attendance", "check in"},
		"Staff verify attendance by scanning your QR pass at the venue. Each pass can be verified once."},
	{[]string{"full", "capacity", "seats", "seat"},
		"Each event has a fixed number of seats. When it is full, registration closes."},
	{[]string{"event", "events", "seminar", "seminars", "workshop", "workshops", "cultural", "sports", "happening"},
		"Browse upcoming events on the home page. You can search by title or filter by category."},
	{[]string{"contact", "help", "support", "email"},
		"Need more help? Contact the events team at the college office."},
	{[]string{"hello", "hi", "hey", "good morning", "good evening"},
		"Hello! I can help you find events and register for them."},
}

// ChatReply answers a message with a canned reply. It keeps no state.
func ChatReply(message string) string {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return chatbotFallback
	}
	msg := " " + strings.Join(words, " ") + " "
	for _, r := range chatRules {
		for _, k := range r.keywords {
			if strings.Contains(msg, " "+k+" ") {
				return r.reply
			}
		}
	}
	return chatbotFallback
}
