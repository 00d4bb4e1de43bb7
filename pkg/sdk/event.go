package sdk

// Event es la estructura mínima que circula por el bus interno
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Bus es la interfaz pública del event bus
type Bus interface {
	Publish(ev Event)
	Subscribe() chan Event
	Unsubscribe(ch chan Event)
}
