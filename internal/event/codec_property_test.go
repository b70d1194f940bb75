package event

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_EncodeDecodeRoundTrip validates that Encode followed by
// Decode reproduces every field the wire codec defines for a given tag,
// for arbitrarily generated field values.
func TestProperty_EncodeDecodeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("click round-trips", prop.ForAll(
		func(tMs uint64, x, y int32, button uint8, clicks uint8, mods uint8) bool {
			want := Click(tMs, x, y, Button(button%3), clicks, Modifier(mods))
			return roundTrips(want)
		},
		gen.UInt64(), gen.Int32(), gen.Int32(), gen.UInt8Range(0, 2), gen.UInt8(), gen.UInt8(),
	))

	properties.Property("move round-trips", prop.ForAll(
		func(tMs uint64, x, y int32) bool {
			return roundTrips(Move(tMs, x, y))
		},
		gen.UInt64(), gen.Int32(), gen.Int32(),
	))

	properties.Property("scroll round-trips", prop.ForAll(
		func(tMs uint64, x, y, dx, dy int32) bool {
			return roundTrips(Scroll(tMs, x, y, dx, dy))
		},
		gen.UInt64(), gen.Int32(), gen.Int32(), gen.Int32(), gen.Int32(),
	))

	properties.Property("key round-trips", prop.ForAll(
		func(tMs uint64, keycode uint16, mods uint8) bool {
			return roundTrips(Key(tMs, keycode, Modifier(mods)))
		},
		gen.UInt64(), gen.UInt16(), gen.UInt8(),
	))

	properties.Property("text round-trips up to MaxScalars", prop.ForAll(
		func(tMs uint64, s string) bool {
			return roundTrips(Text(tMs, s))
		},
		gen.UInt64(), gen.AnyString(),
	))

	properties.Property("app round-trips", prop.ForAll(
		func(tMs uint64, name string, pid int32) bool {
			return roundTrips(App(tMs, name, pid))
		},
		gen.UInt64(), gen.AnyString(), gen.Int32(),
	))

	properties.Property("window round-trips", prop.ForAll(
		func(tMs uint64, app, title string) bool {
			return roundTrips(Window(tMs, app, title))
		},
		gen.UInt64(), gen.AnyString(), gen.AnyString(),
	))

	properties.Property("context round-trips", prop.ForAll(
		func(tMs uint64, role, name, value string) bool {
			return roundTrips(Context(tMs, role, name, value))
		},
		gen.UInt64(), gen.AnyString(), gen.AnyString(), gen.AnyString(),
	))

	properties.Property("unknown tag codes are reported, never panic", prop.ForAll(
		func(code string) bool {
			if _, ok := codeTag[code]; ok {
				return true // a generated code collided with a real one, not what this checks
			}
			line, err := json.Marshal(map[string]any{"t": 0, "e": code})
			if err != nil {
				return true
			}
			_, err = Decode(line)
			_, isUnknown := err.(ErrUnknownTag)
			return isUnknown
		},
		gen.AnyString().SuchThat(func(s string) bool { return len(s) != 1 }),
	))

	properties.TestingRun(t)
}

func roundTrips(want Event) bool {
	encoded, err := Encode(want)
	if err != nil {
		return false
	}
	got, err := Decode(encoded)
	if err != nil {
		return false
	}
	return got == want
}
