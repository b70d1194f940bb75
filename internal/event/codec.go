package event

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// tagCode maps a Tag to its one-letter wire code, per spec §4.1.
var tagCode = map[Tag]string{
	TagClick:     "c",
	TagMove:      "m",
	TagScroll:    "s",
	TagKey:       "k",
	TagText:      "x",
	TagApp:       "a",
	TagWindow:    "w",
	TagClipboard: "p",
	TagContext:   "o",
}

var codeTag = func() map[string]Tag {
	out := make(map[string]Tag, len(tagCode))
	for tag, code := range tagCode {
		out[code] = tag
	}
	return out
}()

// Encode renders e as one compact JSON line (no trailing newline).
func Encode(e Event) ([]byte, error) {
	m := map[string]any{
		"t": e.T,
		"e": tagCode[e.Tag],
	}

	switch e.Tag {
	case TagClick:
		m["x"] = e.X
		m["y"] = e.Y
		m["b"] = e.Button
		m["n"] = e.Clicks
		m["m"] = e.Modifiers
	case TagMove:
		m["x"] = e.X
		m["y"] = e.Y
	case TagScroll:
		m["x"] = e.X
		m["y"] = e.Y
		m["dx"] = e.DX
		m["dy"] = e.DY
	case TagKey:
		m["k"] = e.KeyCode
		m["m"] = e.Modifiers
	case TagText:
		m["s"] = e.Text
	case TagApp:
		m["n"] = e.AppName
		m["p"] = e.PID
	case TagWindow:
		m["a"] = e.WindowApp
		m["w"] = e.WindowTitle
	case TagClipboard:
		m["o"] = string(e.ClipOp)
		m["p"] = e.Preview
	case TagContext:
		m["r"] = e.Role
		m["n"] = e.Name
		m["v"] = e.Value
	default:
		return nil, fmt.Errorf("event: unknown tag %q", e.Tag)
	}

	return json.Marshal(m)
}

// Decode parses one wire line into an Event. Unknown tags return
// ErrUnknownTag so callers can skip them without failing the whole load.
func Decode(line []byte) (Event, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Event{}, fmt.Errorf("event: decode: %w", err)
	}

	codeRaw, ok := raw["e"]
	if !ok {
		return Event{}, fmt.Errorf("event: decode: missing tag field")
	}
	var code string
	if err := json.Unmarshal(codeRaw, &code); err != nil {
		return Event{}, fmt.Errorf("event: decode: tag field: %w", err)
	}

	tag, ok := codeTag[code]
	if !ok {
		return Event{}, ErrUnknownTag{Code: code}
	}

	var t uint64
	if tRaw, ok := raw["t"]; ok {
		if err := json.Unmarshal(tRaw, &t); err != nil {
			return Event{}, fmt.Errorf("event: decode: t field: %w", err)
		}
	}

	e := Event{T: t, Tag: tag}

	get := func(key string, dst any) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		return json.Unmarshal(v, dst)
	}

	var err error
	switch tag {
	case TagClick:
		err = firstErr(
			get("x", &e.X), get("y", &e.Y), get("b", &e.Button),
			get("n", &e.Clicks), get("m", &e.Modifiers),
		)
	case TagMove:
		err = firstErr(get("x", &e.X), get("y", &e.Y))
	case TagScroll:
		err = firstErr(get("x", &e.X), get("y", &e.Y), get("dx", &e.DX), get("dy", &e.DY))
	case TagKey:
		err = firstErr(get("k", &e.KeyCode), get("m", &e.Modifiers))
	case TagText:
		var s string
		if err = get("s", &s); err == nil {
			e.Text = TruncateScalars(s, MaxScalars)
		}
	case TagApp:
		err = firstErr(get("n", &e.AppName), get("p", &e.PID))
	case TagWindow:
		err = firstErr(get("a", &e.WindowApp), get("w", &e.WindowTitle))
	case TagClipboard:
		var op string
		if err = firstErr(get("o", &op)); err == nil {
			e.ClipOp = ClipboardOp(op)
			var preview string
			if err = get("p", &preview); err == nil {
				e.Preview = TruncateScalars(preview, MaxScalars)
			}
		}
	case TagContext:
		err = firstErr(get("r", &e.Role), get("n", &e.Name), get("v", &e.Value))
	}
	if err != nil {
		return Event{}, fmt.Errorf("event: decode %s: %w", tag, err)
	}

	return e, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ErrUnknownTag is returned by Decode for a tag code the codec doesn't
// recognize, so callers can skip the line for forward-compatibility
// instead of failing the whole load.
type ErrUnknownTag struct {
	Code string
}

func (e ErrUnknownTag) Error() string {
	return fmt.Sprintf("event: unknown tag code %q", e.Code)
}

// LoadResult summarizes a Load pass over a log, per spec §4.1's
// forward-compatibility and §7's DecodeError policy: bad lines are skipped,
// not fatal.
type LoadResult struct {
	Events  []Event
	Skipped int
}

// Load reads newline-delimited wire lines from r, skipping lines that fail
// to decode (unknown tag, malformed JSON, or a trailing partial line from
// an abrupt termination) and counting them in Skipped.
func Load(r io.Reader) (LoadResult, error) {
	var result LoadResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		e, err := Decode(line)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Events = append(result.Events, e)
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("event: load: %w", err)
	}
	return result, nil
}
