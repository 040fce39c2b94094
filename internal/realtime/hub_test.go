package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(roomCode, participantID string) *Client {
	return &Client{
		roomCode:      roomCode,
		participantID: participantID,
		send:          make(chan []byte, sendBufferSize),
	}
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubBroadcastReachesOnlyTheRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient("AAAAAA", "part-alice")
	bob := newTestClient("AAAAAA", "part-bob")
	other := newTestClient("BBBBBB", "part-other")

	hub.register <- alice
	hub.register <- bob
	hub.register <- other

	// Drain the presence events emitted on registration.
	recvEvent(t, alice) // alice joins
	recvEvent(t, alice) // bob joins
	recvEvent(t, bob)
	recvEvent(t, other)

	hub.Broadcast("AAAAAA", "item-added", map[string]string{"id": "item-1"})

	for _, c := range []*Client{alice, bob} {
		ev := recvEvent(t, c)
		if ev.Type != "item-added" {
			t.Errorf("event type = %q, want item-added", ev.Type)
		}
	}

	select {
	case data := <-other.send:
		t.Errorf("client in another room received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPresence(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient("CCCCCC", "part-1")
	hub.register <- first

	ev := recvEvent(t, first)
	if ev.Type != "online-participants" {
		t.Fatalf("event type = %q, want online-participants", ev.Type)
	}
	if online := presenceIDs(t, ev); len(online) != 1 || online[0] != "part-1" {
		t.Errorf("online = %v, want [part-1]", online)
	}

	// A second socket for the same participant must not duplicate them.
	second := newTestClient("CCCCCC", "part-1")
	hub.register <- second

	ev = recvEvent(t, second)
	if online := presenceIDs(t, ev); len(online) != 1 {
		t.Errorf("online = %v, want a single deduplicated entry", online)
	}
	recvEvent(t, first)

	hub.unregister <- second
	ev = recvEvent(t, first)
	if online := presenceIDs(t, ev); len(online) != 1 {
		t.Errorf("online after partial disconnect = %v, want [part-1]", online)
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("DDDDDD", "part-1")
	hub.register <- client
	recvEvent(t, client)

	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for send channel to close")
	}
}

func presenceIDs(t *testing.T, ev Event) []string {
	t.Helper()
	raw, err := json.Marshal(ev.Payload)
	if err != nil {
		t.Fatalf("failed to remarshal payload: %v", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		t.Fatalf("payload %s is not a string list: %v", raw, err)
	}
	return ids
}
