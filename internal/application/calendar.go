package application

import (
	"context"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
)

// Events have no end time; feeds show them as two hour slots.
const calendarSlot = 2 * time.Hour

// MyEvents lists the caller's registrations ordered by event date.
func MyEvents(ctx context.Context, regs repo.RegistrationRepository, p *Principal) ([]entity.RegistrationDetail, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	return regs.ListByUser(ctx, p.UserID)
}

// CalendarFeed renders registrations as an iCalendar document. portalURL,
// when set, links every entry to its QR pass.
func CalendarFeed(appName, portalURL string, regs []entity.RegistrationDetail, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + appName + "//my events//EN")
	cal.SetXWRCalName(appName)

	base := strings.TrimRight(portalURL, "/")
	for i := range regs {
		r := &regs[i]
		ev := cal.AddEvent(r.Token + "@" + appName)
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(r.Event.Date.UTC())
		ev.SetEndAt(r.Event.Date.UTC().Add(calendarSlot))
		ev.SetSummary(r.Event.Title)
		ev.SetLocation(r.Event.Venue)
		desc := r.Event.Description
		if desc != "" {
			desc += "\n\n"
		}
		desc += "Category: " + r.Event.Category.Label() + "\nPass ID: " + r.Token
		if r.Attended {
			desc += "\nAttendance verified"
		}
		ev.SetDescription(desc)
		if base != "" {
			ev.SetURL(base + "/qr/" + r.Token)
		}
	}
	return cal.Serialize()
}
