package telemetry

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/gorilla/websocket"
	"go.viam.com/test"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/sim"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	test.That(t, err, test.ShouldBeNil)

	var f Frame
	test.That(t, json.Unmarshal(data, &f), test.ShouldBeNil)
	return f
}

func TestHubBroadcastsSteps(t *testing.T) {
	h := NewHub()
	h.SetGate(course.NewGate(r2.Point{X: 400}, 0, 100, 200))
	conn := dial(t, h)

	h.OnStep(sim.Step{
		Index:    7,
		Snapshot: boat.Snapshot{X: 12, Y: -3, Time: 0.5},
		Linear:   4,
		Progress: 1,
		Corners:  [4]r2.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}},
	})

	f := readFrame(t, conn)
	test.That(t, f.Index, test.ShouldEqual, 7)
	test.That(t, f.Boat.X, test.ShouldEqual, 12.0)
	test.That(t, f.Boat.Time, test.ShouldEqual, 0.5)
	test.That(t, f.Linear, test.ShouldEqual, 4.0)
	test.That(t, f.Progress, test.ShouldEqual, 1)
	test.That(t, f.Hull[3], test.ShouldResemble, Point{X: 7, Y: 8})
	test.That(t, f.Buoys, test.ShouldHaveLength, 4)
	test.That(t, f.Buoys[0].Color, test.ShouldEqual, "GREEN")
	test.That(t, f.Buoys[3].Color, test.ShouldEqual, "RED")
}

func TestHubDecimation(t *testing.T) {
	h := NewHub(WithDecimation(3))
	conn := dial(t, h)

	for i := 0; i < 7; i++ {
		h.OnStep(sim.Step{Index: i})
	}

	for _, want := range []int{0, 3, 6} {
		test.That(t, readFrame(t, conn).Index, test.ShouldEqual, want)
	}
}

func TestHubWithoutClients(t *testing.T) {
	h := NewHub()
	h.OnStep(sim.Step{Index: 1})
	test.That(t, h.Clients(), test.ShouldEqual, 0)
}

func TestHubClose(t *testing.T) {
	h := NewHub()
	conn := dial(t, h)

	h.Close()
	test.That(t, h.Clients(), test.ShouldEqual, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	test.That(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), test.ShouldBeTrue)
}
