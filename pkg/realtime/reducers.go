package realtime

import (
	"slices"
	"time"

	"finquest-be/pkg/events"
)

// The reducers below never mutate their input; each returns a new value.

// ApplyXP sets the authoritative total when present, otherwise adds the delta.
func ApplyXP(s Stats, e events.XPChanged) Stats {
	if e.TotalXP != nil {
		s.XP = *e.TotalXP
	} else {
		s.XP += e.XPDelta
	}
	return s
}

// ApplyActivity prepends an entry stamped with now and keeps the newest MaxActivities.
// The stamp is local; the persisted record may differ by the delivery latency.
func ApplyActivity(s Stats, e events.ActivityLogged, now time.Time) Stats {
	delta := 0
	if e.XPDelta != nil {
		delta = *e.XPDelta
	}

	n := min(len(s.Activities)+1, MaxActivities)
	activities := make([]Activity, 0, n)
	activities = append(activities, Activity{Text: e.Text, XPDelta: delta, CreatedAt: now})
	activities = append(activities, s.Activities[:n-1]...)

	s.Activities = activities
	return s
}

// ApplyLessonProgress replaces the progress of the matching lesson only.
func ApplyLessonProgress(lessons []Lesson, e events.LessonProgress) []Lesson {
	out := slices.Clone(lessons)
	for i := range out {
		if out[i].ID == e.LessonID {
			out[i].Progress = e.Percent
		}
	}
	return out
}

// ApplyProfile merges the fields present in the event.
func ApplyProfile(p Profile, e events.ProfileUpdated) Profile {
	if e.Name != nil {
		p.Name = *e.Name
	}
	if e.AvatarURL != nil {
		p.AvatarURL = *e.AvatarURL
	}
	return p
}

// ApplyBadge prepends the badge unless the user already holds it.
func ApplyBadge(s Stats, e events.BadgeUnlocked) Stats {
	if slices.Contains(s.Badges, e.Badge) {
		return s
	}
	badges := make([]string, 0, len(s.Badges)+1)
	badges = append(badges, e.Badge)
	s.Badges = append(badges, s.Badges...)
	return s
}
