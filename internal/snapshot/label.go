package snapshot

import "time"

// LabelFormat is the timestamp layout used for snapshot labels. Labels
// sort lexically in time order, which keeps `zfs list` output readable
// and lets the day be cut straight out of the label.
const LabelFormat = "2006-01-02_15.04.05"

// NewLabel formats the run-scoped label. One label is captured per run
// and shared by every dataset so downstream incremental-send tooling can
// treat the whole run as a single generation.
func NewLabel(t time.Time) string {
	return t.Format(LabelFormat)
}

// DayOf extracts the calendar day from a label produced with
// LabelFormat. The day comes from the label, not from re-formatting the
// creation time, so a timezone change between runs cannot move a
// snapshot into a different bucket. Labels written by other tools don't
// parse and are reported as not ours.
func DayOf(label string) (string, bool) {
	if len(label) < len(LabelFormat) {
		return "", false
	}
	if _, err := time.Parse(LabelFormat, label[:len(LabelFormat)]); err != nil {
		return "", false
	}
	return label[:10], true
}
