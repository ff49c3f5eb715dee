package engine

import (
	"typethrough/types"
)

type EventType string

const (
	EventRequest     EventType = "request"
	EventReady       EventType = "ready"
	EventFailed      EventType = "failed"
	EventTextChanged EventType = "text_changed"
	EventAccept      EventType = "accept"
	EventAcceptWord  EventType = "accept_word"
	EventAcceptLine  EventType = "accept_line"
	EventReject      EventType = "reject"
)

type Event struct {
	Type EventType
	Data any
}

type requestData struct {
	id         string
	anchor     types.Position
	linePrefix string
}

type readyData struct {
	id         string
	completion string
	err        error
}

type textChangedData struct {
	cursor types.Position
	typed  string
}

// acceptData carries the editor text in and the text to insert out.
type acceptData struct {
	typed    string
	suffix   string
	inserted string
}
