package midiin

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

type recorder struct {
	events []string
}

func (r *recorder) NoteOn(n int)  { r.events = append(r.events, fmt.Sprintf("on %d", n)) }
func (r *recorder) NoteOff(n int) { r.events = append(r.events, fmt.Sprintf("off %d", n)) }

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status byte
		data1  byte
		data2  byte
		want   []string
		ok     bool
	}{
		{"note on", 0x90, 60, 100, []string{"on 60"}, true},
		{"note on other channel", 0x9f, 61, 1, []string{"on 61"}, true},
		{"note on zero velocity", 0x90, 62, 0, []string{"off 62"}, true},
		{"note off", 0x83, 63, 64, []string{"off 63"}, true},
		{"control change", 0xb0, 7, 100, nil, false},
		{"pitch bend", 0xe0, 0, 64, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			ok := Dispatch(rec, tc.status, tc.data1, tc.data2)
			if ok != tc.ok {
				t.Fatalf("Dispatch() = %v, want %v", ok, tc.ok)
			}
			if !reflect.DeepEqual(rec.events, tc.want) {
				t.Fatalf("events = %v, want %v", rec.events, tc.want)
			}
		})
	}
}

func TestHandleMessage(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	msgs := []midi.Message{
		midi.NoteOn(0, 60, 100),
		midi.NoteOn(3, 64, 0),
		midi.NoteOff(0, 60),
		midi.ControlChange(0, 74, 10),
	}

	handled := 0
	for _, m := range msgs {
		if HandleMessage(rec, m) {
			handled++
		}
	}

	if handled != 3 {
		t.Fatalf("handled = %d, want 3", handled)
	}
	want := []string{"on 60", "off 64", "off 60"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
}

func TestMatchPort(t *testing.T) {
	t.Parallel()

	names := []string{"Midi Through:0", "KeyStep 37:0", "Arturia KeyStep"}

	tests := []struct {
		want    string
		idx     int
		wantErr error
	}{
		{"", 0, nil},
		{"keystep", 1, nil},
		{"ARTURIA", 2, nil},
		{"launchpad", -1, ErrPortNotFound},
	}
	for _, tc := range tests {
		idx, err := matchPort(names, tc.want)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("matchPort(%q) error = %v, want %v", tc.want, err, tc.wantErr)
		}
		if idx != tc.idx {
			t.Fatalf("matchPort(%q) = %d, want %d", tc.want, idx, tc.idx)
		}
	}

	if _, err := matchPort(nil, ""); !errors.Is(err, ErrNoPorts) {
		t.Fatalf("matchPort(nil) error = %v, want ErrNoPorts", err)
	}
}

func TestOpenBackends(t *testing.T) {
	t.Parallel()

	c, err := Open(BackendNone, "", &recorder{})
	if err != nil {
		t.Fatalf("Open(none) error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := Open("alsa", "", &recorder{}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("Open(alsa) error = %v, want ErrUnknownBackend", err)
	}
}
