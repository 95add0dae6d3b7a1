package io

import (
	"time"

	"github.com/matzehuels/classviz/pkg/engagement"
)

// Wire representations. They mirror the engagement types with flexible
// timestamps and convert in both directions.

type wireSession struct {
	Start timestamp `json:"start"`
	End   timestamp `json:"end"`
	Type  string    `json:"type,omitempty"`
}

type wireEvent struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Start    timestamp `json:"start"`
	End      timestamp `json:"end"`
}

type wireStudent struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name"`
	Avatar   string        `json:"avatar,omitempty"`
	Sessions []wireSession `json:"sessions"`
}

type wireTimeline struct {
	Kind     engagement.Kind `json:"kind,omitempty"`
	Event    wireEvent       `json:"event"`
	Students []wireStudent   `json:"students"`
}

type wirePerformance struct {
	Kind     engagement.Kind                 `json:"kind,omitempty"`
	Students []engagement.StudentPerformance `json:"students"`
}

type wireActivity struct {
	Kind     engagement.Kind              `json:"kind,omitempty"`
	Topics   []engagement.TopicNode       `json:"topics"`
	Students []engagement.ActivityStudent `json:"students"`
}

type wireWeights struct {
	Kind  engagement.Kind         `json:"kind,omitempty"`
	Items []engagement.WeightItem `json:"items"`
}

type wireDaily struct {
	Date     timestamp     `json:"date"`
	Sessions []wireSession `json:"sessions"`
}

type wireInteractionStudent struct {
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"name"`
	AvatarURL string      `json:"avatarUrl,omitempty"`
	Daily     []wireDaily `json:"dailyData"`
}

type wireInteractions struct {
	Kind      engagement.Kind                       `json:"kind,omitempty"`
	StartDate timestamp                             `json:"startDate"`
	EndDate   timestamp                             `json:"endDate"`
	Types     map[string]engagement.InteractionType `json:"interactionTypes,omitempty"`
	Students  []wireInteractionStudent              `json:"students"`
}

func (s wireSession) toSession() engagement.Session {
	return engagement.Session{Start: time.Time(s.Start), End: time.Time(s.End), Type: s.Type}
}

func fromSessions(in []engagement.Session) []wireSession {
	out := make([]wireSession, len(in))
	for i, s := range in {
		out[i] = wireSession{Start: timestamp(s.Start), End: timestamp(s.End), Type: s.Type}
	}
	return out
}

func toSessions(in []wireSession) []engagement.Session {
	out := make([]engagement.Session, len(in))
	for i, s := range in {
		out[i] = s.toSession()
	}
	return out
}

func (w wireTimeline) toTimeline() engagement.Timeline {
	t := engagement.Timeline{
		Event: engagement.Event{
			Title:    w.Event.Title,
			Subtitle: w.Event.Subtitle,
			Start:    time.Time(w.Event.Start),
			End:      time.Time(w.Event.End),
		},
		Students: make([]engagement.Student, len(w.Students)),
	}
	for i, st := range w.Students {
		t.Students[i] = engagement.Student{
			ID:       st.ID,
			Name:     st.Name,
			Avatar:   st.Avatar,
			Sessions: toSessions(st.Sessions),
		}
	}
	return t
}

func fromTimeline(t engagement.Timeline) wireTimeline {
	w := wireTimeline{
		Kind: engagement.KindTimeline,
		Event: wireEvent{
			Title:    t.Event.Title,
			Subtitle: t.Event.Subtitle,
			Start:    timestamp(t.Event.Start),
			End:      timestamp(t.Event.End),
		},
		Students: make([]wireStudent, len(t.Students)),
	}
	for i, st := range t.Students {
		w.Students[i] = wireStudent{ID: st.ID, Name: st.Name, Avatar: st.Avatar, Sessions: fromSessions(st.Sessions)}
	}
	return w
}

func (w wireInteractions) toInteractions() engagement.Interactions {
	d := engagement.Interactions{
		StartDate: time.Time(w.StartDate),
		EndDate:   time.Time(w.EndDate),
		Types:     w.Types,
		Students:  make([]engagement.InteractionStudent, len(w.Students)),
	}
	for i, st := range w.Students {
		daily := make([]engagement.DailyActivity, len(st.Daily))
		for j, a := range st.Daily {
			daily[j] = engagement.DailyActivity{Date: time.Time(a.Date), Sessions: toSessions(a.Sessions)}
		}
		d.Students[i] = engagement.InteractionStudent{ID: st.ID, Name: st.Name, AvatarURL: st.AvatarURL, Daily: daily}
	}
	return d
}

func fromInteractions(d engagement.Interactions) wireInteractions {
	w := wireInteractions{
		Kind:      engagement.KindInteractions,
		StartDate: timestamp(d.StartDate),
		EndDate:   timestamp(d.EndDate),
		Types:     d.Types,
		Students:  make([]wireInteractionStudent, len(d.Students)),
	}
	for i, st := range d.Students {
		daily := make([]wireDaily, len(st.Daily))
		for j, a := range st.Daily {
			daily[j] = wireDaily{Date: timestamp(a.Date), Sessions: fromSessions(a.Sessions)}
		}
		w.Students[i] = wireInteractionStudent{ID: st.ID, Name: st.Name, AvatarURL: st.AvatarURL, Daily: daily}
	}
	return w
}
