package orch_test

import (
	"encoding/json"
	"testing"

	"github.com/dikno1d/mizme-chat/internal/app"
	"github.com/dikno1d/mizme-chat/internal/app/orch"
	"github.com/dikno1d/mizme-chat/internal/domain"
)

type fakeConn struct {
	frames []app.Frame
}

func (f *fakeConn) TrySend(fr app.Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		if err := json.Unmarshal(fr, &m); err != nil {
			t.Fatalf("bad frame %q: %v", fr, err)
		}
		out = append(out, m)
	}
	return out
}

func (f *fakeConn) count(t *testing.T, eventType string) int {
	t.Helper()
	n := 0
	for _, ev := range f.events(t) {
		if ev["type"] == eventType {
			n++
		}
	}
	return n
}

func (f *fakeConn) find(t *testing.T, eventType string) (map[string]any, bool) {
	t.Helper()
	for _, ev := range f.events(t) {
		if ev["type"] == eventType {
			return ev, true
		}
	}
	return nil, false
}

func (f *fakeConn) reset() { f.frames = nil }

func newOrchestrator() *orch.Orchestrator {
	reg := app.NewRegistry()
	rooms := app.NewDirectory([]domain.Room{
		{ID: "general", Name: "General"},
		{ID: "gaming", Name: "Gaming"},
	})
	return orch.New(reg, rooms)
}

func connect(o *orch.Orchestrator, cid domain.ConnID) *fakeConn {
	conn := &fakeConn{}
	o.Registry.Bind(cid, conn)
	return conn
}

func TestJoinUnknownRoomLeavesNoTrace(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	if _, _, err := o.Join("a", "Alice", "void", ""); err != app.ErrUnknownRoom {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
	if _, ok := o.Registry.Get("a"); ok {
		t.Fatalf("rejected join must not create a session")
	}
}

func TestChatScenario(t *testing.T) {
	o := newOrchestrator()
	aConn := connect(o, "a")
	bConn := connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", "#f00"); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", "#00f"); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}

	ev, ok := bConn.find(t, "updateUsers")
	if !ok {
		t.Fatalf("bob never received updateUsers")
	}
	if int(ev["count"].(float64)) != 2 {
		t.Fatalf("expected count 2, got %v", ev["count"])
	}
	users := ev["users"].([]any)
	names := map[string]bool{}
	for _, u := range users {
		names[u.(map[string]any)["username"].(string)] = true
	}
	if !names["Alice"] || !names["Bob"] {
		t.Fatalf("expected both names in snapshot, got %v", names)
	}

	aConn.reset()
	if err := o.Chat("b", "hi", false, false); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	msg, ok := aConn.find(t, "message")
	if !ok {
		t.Fatalf("alice never received the message")
	}
	if msg["user"] != "Bob" || msg["text"] != "hi" {
		t.Fatalf("unexpected message: %v", msg)
	}
	if msg["id"] == "" || msg["id"] == nil {
		t.Fatalf("message must carry an id")
	}
}

func TestChatWithoutSessionIsDropped(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	if err := o.Chat("a", "hello", false, false); err != app.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoomMoveAnnouncesDepartureOnce(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	bConn := connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", ""); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}
	bConn.reset()

	if _, _, err := o.Join("a", "Alice", "gaming", ""); err != nil {
		t.Fatalf("room move failed: %v", err)
	}

	for _, cid := range o.Rooms.Members("general") {
		if cid == "a" {
			t.Fatalf("alice still member of general after moving")
		}
	}
	departures := 0
	for _, ev := range bConn.events(t) {
		if ev["type"] == "message" && ev["user"] == "Alice" {
			departures++
		}
	}
	if departures != 1 {
		t.Fatalf("expected exactly one departure announcement, got %d", departures)
	}
	ev, ok := bConn.find(t, "updateUsers")
	if !ok {
		t.Fatalf("bob never received updateUsers after the move")
	}
	if int(ev["count"].(float64)) != 1 {
		t.Fatalf("expected count 1 after move, got %v", ev["count"])
	}
}

func TestCallJoinWithoutSession(t *testing.T) {
	o := newOrchestrator()
	connect(o, "ghost")

	if _, err := o.JoinCall(domain.CallVoice, "ghost"); err != app.ErrNotJoinedToRoom {
		t.Fatalf("expected ErrNotJoinedToRoom, got %v", err)
	}
	if o.Voice.Size() != 0 {
		t.Fatalf("rejected call join must not create a record")
	}
}

func TestVoiceCallScenario(t *testing.T) {
	o := newOrchestrator()
	aConn := connect(o, "a")
	connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", ""); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}

	others, err := o.JoinCall(domain.CallVoice, "a")
	if err != nil {
		t.Fatalf("alice call join failed: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("first call participant should see nobody, got %d", len(others))
	}

	aConn.reset()
	others, err = o.JoinCall(domain.CallVoice, "b")
	if err != nil {
		t.Fatalf("bob call join failed: %v", err)
	}
	if len(others) != 1 || others[0].Username != "Alice" {
		t.Fatalf("bob should see alice's record, got %+v", others)
	}
	ev, ok := aConn.find(t, "voiceUserJoined")
	if !ok {
		t.Fatalf("alice never saw bob join the call")
	}
	if ev["user"].(map[string]any)["username"] != "Bob" {
		t.Fatalf("unexpected voiceUserJoined payload: %v", ev)
	}
}

func TestVoiceStateChange(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	bConn := connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", ""); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}

	if _, err := o.UpdateVoiceState("a", true, false); err != app.ErrNotInCall {
		t.Fatalf("expected ErrNotInCall, got %v", err)
	}

	if _, err := o.JoinCall(domain.CallVoice, "a"); err != nil {
		t.Fatalf("call join failed: %v", err)
	}
	bConn.reset()
	rec, err := o.UpdateVoiceState("a", true, true)
	if err != nil {
		t.Fatalf("state change failed: %v", err)
	}
	if !rec.Muted || !rec.Deafened {
		t.Fatalf("expected merged state, got %+v", rec)
	}
	ev, ok := bConn.find(t, "voiceStateChanged")
	if !ok {
		t.Fatalf("room never saw the state change")
	}
	if ev["user"].(map[string]any)["isMuted"] != true {
		t.Fatalf("unexpected state payload: %v", ev)
	}
}

func TestDisconnectTearsDownEverything(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	bConn := connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", ""); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}
	if _, err := o.JoinCall(domain.CallVoice, "a"); err != nil {
		t.Fatalf("voice join failed: %v", err)
	}
	if _, err := o.JoinCall(domain.CallVideo, "a"); err != nil {
		t.Fatalf("video join failed: %v", err)
	}
	bConn.reset()

	o.Disconnect("a")

	if n := bConn.count(t, "voiceUserLeft"); n != 1 {
		t.Fatalf("expected exactly one voiceUserLeft, got %d", n)
	}
	if n := bConn.count(t, "videoUserLeft"); n != 1 {
		t.Fatalf("expected exactly one videoUserLeft, got %d", n)
	}
	if n := bConn.count(t, "message"); n != 1 {
		t.Fatalf("expected exactly one departure message, got %d", n)
	}
	status, ok := bConn.find(t, "userStatusChanged")
	if !ok || status["status"] != "offline" {
		t.Fatalf("expected offline announcement, got %v", status)
	}
	ev, ok := bConn.find(t, "updateUsers")
	if !ok || int(ev["count"].(float64)) != 1 {
		t.Fatalf("expected presence count 1 after disconnect, got %v", ev)
	}

	if o.Voice.Size() != 0 || o.Video.Size() != 0 {
		t.Fatalf("call records survived disconnect")
	}
	if _, found := o.Registry.Get("a"); found {
		t.Fatalf("session survived disconnect")
	}
	if o.Rooms.Count("general") != 1 {
		t.Fatalf("membership survived disconnect")
	}
}

func TestRenamePropagatesToCallRecords(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	bConn := connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", ""); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}
	if _, err := o.JoinCall(domain.CallVoice, "a"); err != nil {
		t.Fatalf("voice join failed: %v", err)
	}
	if _, err := o.JoinCall(domain.CallVideo, "a"); err != nil {
		t.Fatalf("video join failed: %v", err)
	}
	bConn.reset()

	if err := o.Rename("a", "Alicia"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	if n := bConn.count(t, "voiceUserUpdated"); n != 1 {
		t.Fatalf("expected one voiceUserUpdated, got %d", n)
	}
	if n := bConn.count(t, "videoUserUpdated"); n != 1 {
		t.Fatalf("expected one videoUserUpdated, got %d", n)
	}
	ren, ok := bConn.find(t, "userChangedUsername")
	if !ok {
		t.Fatalf("expected userChangedUsername")
	}
	if ren["oldName"] != "Alice" || ren["newName"] != "Alicia" {
		t.Fatalf("unexpected rename payload: %v", ren)
	}
	if rec, ok := o.Voice.Get("a"); !ok || rec.Username != "Alicia" {
		t.Fatalf("voice record not renamed: %+v", rec)
	}
	if rec, ok := o.Video.Get("a"); !ok || rec.Username != "Alicia" {
		t.Fatalf("video record not renamed: %+v", rec)
	}
}

func TestTypingExcludesSender(t *testing.T) {
	o := newOrchestrator()
	aConn := connect(o, "a")
	bConn := connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", ""); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}
	aConn.reset()
	bConn.reset()

	if err := o.Typing("a", false); err != nil {
		t.Fatalf("typing failed: %v", err)
	}
	if n := bConn.count(t, "typing"); n != 1 {
		t.Fatalf("bob should see one typing event, got %d", n)
	}
	if n := aConn.count(t, "typing"); n != 0 {
		t.Fatalf("sender must not receive its own typing event, got %d", n)
	}

	if err := o.Typing("a", true); err != nil {
		t.Fatalf("stop typing failed: %v", err)
	}
	if n := bConn.count(t, "stopTyping"); n != 1 {
		t.Fatalf("bob should see one stopTyping event, got %d", n)
	}
}

func TestRejoinSameRoomIsIdempotent(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if o.Rooms.Count("general") != 1 {
		t.Fatalf("rejoin duplicated membership, count=%d", o.Rooms.Count("general"))
	}
	sess, ok := o.Registry.Get("a")
	if !ok || sess.Room != "general" {
		t.Fatalf("expected fresh session in general, got %+v", sess)
	}
}

func TestRoomMoveForcesCallLeave(t *testing.T) {
	o := newOrchestrator()
	connect(o, "a")
	bConn := connect(o, "b")

	if _, _, err := o.Join("a", "Alice", "general", ""); err != nil {
		t.Fatalf("alice join failed: %v", err)
	}
	if _, _, err := o.Join("b", "Bob", "general", ""); err != nil {
		t.Fatalf("bob join failed: %v", err)
	}
	if _, err := o.JoinCall(domain.CallVoice, "a"); err != nil {
		t.Fatalf("voice join failed: %v", err)
	}
	bConn.reset()

	if _, _, err := o.Join("a", "Alice", "gaming", ""); err != nil {
		t.Fatalf("room move failed: %v", err)
	}
	if _, ok := o.Voice.Get("a"); ok {
		t.Fatalf("call record must not survive a room change")
	}
	if n := bConn.count(t, "voiceUserLeft"); n != 1 {
		t.Fatalf("old room should see the call departure, got %d", n)
	}
}
