package websocket

import (
	"log/slog"
	"time"

	"github.com/thereayou/voxus/internal/room"
)

// Dispatcher рассылает события комнаты её текущим участникам.
//
// Методы ToRoom/ToRoomExcept вызываются под блокировкой комнаты
// (внутри room.Registry.Do), сразу после мутации. Сообщение кодируется
// и ставится в очереди соединений синхронно, поэтому порядок доставки
// внутри комнаты совпадает с порядком мутаций.
type Dispatcher struct {
	hub *Hub
	log *slog.Logger
	now func() time.Time
}

func NewDispatcher(hub *Hub, log *slog.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, log: log, now: time.Now}
}

func (d *Dispatcher) ToRoom(r *room.Room, event EventType, payload interface{}) {
	d.toMembers(r, "", event, payload)
}

func (d *Dispatcher) ToRoomExcept(r *room.Room, excludedConnID string, event EventType, payload interface{}) {
	d.toMembers(r, excludedConnID, event, payload)
}

func (d *Dispatcher) ToConnection(connID string, event EventType, payload interface{}) {
	data, err := Encode(event, "", payload, d.now())
	if err != nil {
		d.log.Error("Failed to encode event", "event", event, "error", err)
		return
	}
	if err := d.hub.Send(connID, data); err != nil {
		d.log.Debug("Direct delivery skipped", "conn_id", connID, "event", event, "error", err)
	}
}

// ToAll - глобальные уведомления (например, о создании комнаты).
func (d *Dispatcher) ToAll(event EventType, payload interface{}) {
	data, err := Encode(event, "", payload, d.now())
	if err != nil {
		d.log.Error("Failed to encode event", "event", event, "error", err)
		return
	}
	d.hub.Broadcast(data)
}

func (d *Dispatcher) toMembers(r *room.Room, excludedConnID string, event EventType, payload interface{}) {
	data, err := Encode(event, r.ID, payload, d.now())
	if err != nil {
		d.log.Error("Failed to encode event", "room_id", r.ID, "event", event, "error", err)
		return
	}
	d.hub.SendMany(r.Members(), data, excludedConnID)
}
