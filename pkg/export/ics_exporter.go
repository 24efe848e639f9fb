package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one recurring or single occurrence in an exported calendar.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	// Weekly repeats the event every week on Start's weekday until Until.
	Weekly bool
	Until  time.Time
}

// ICSExporter renders events as an iCalendar document.
type ICSExporter struct {
	productID string
}

// NewICSExporter constructs an iCalendar exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//sams-api//timetable//EN"
	}
	return &ICSExporter{productID: productID}
}

// ContentType reports the MIME type of rendered output.
func (e *ICSExporter) ContentType() string { return "text/calendar; charset=utf-8" }

// Extension reports the file extension of rendered output.
func (e *ICSExporter) Extension() string { return "ics" }

// Render serialises events into a single VCALENDAR.
func (e *ICSExporter) Render(name string, events []CalendarEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := time.Now().UTC()
	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("calendar event requires uid")
		}
		if !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("calendar event %s ends before it starts", ev.UID)
		}
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(ev.Start.UTC())
		vevent.SetEndAt(ev.End.UTC())
		vevent.SetSummary(ev.Summary)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Weekly {
			rule := "FREQ=WEEKLY;BYDAY=" + icsWeekday(ev.Start.Weekday())
			if !ev.Until.IsZero() {
				rule += ";UNTIL=" + ev.Until.UTC().Format("20060102T150405Z")
			}
			vevent.AddProperty(ics.ComponentPropertyRrule, rule)
		}
	}

	return []byte(cal.Serialize()), nil
}

func icsWeekday(d time.Weekday) string {
	return [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}[d]
}
