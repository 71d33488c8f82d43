package eventlog

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"reactor/internal/lifecycle"
	"reactor/internal/value"
)

// DefaultFormat renders the service name, message, and any extra fields
// a structured event carried.
const DefaultFormat = `{{.Time.Format "15:04:05"}} [{{.Service}}] {{.Message}}{{if .Fields}} {{.Fields}}{{end}}`

// Event is the rendering-time view of a value emitted on a
// lifecycle.Service's Events observable.
type Event struct {
	Service string
	Message string
	Fields  map[string]any
	Time    time.Time
}

// Recorder renders events from attached services through a parsed
// template and writes one line per event to out.
type Recorder struct {
	tmpl *template.Template
	out  io.Writer

	mu sync.Mutex
}

// New parses format (a text/template string with Sprig functions
// available) and constructs a Recorder writing to out.
func New(out io.Writer, format string) (*Recorder, error) {
	if format == "" {
		format = DefaultFormat
	}
	tmpl, err := template.New("event").Funcs(sprig.TxtFuncMap()).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("eventlog: parsing format: %w", err)
	}
	return &Recorder{tmpl: tmpl, out: out}, nil
}

// Attach subscribes to svc's event observable under the given display
// name and renders every future event. It returns an unsubscribe thunk.
func (r *Recorder) Attach(name string, svc lifecycle.Service) value.Unsubscribe {
	return svc.Events().Subscribe(func(raw any, _ value.Unsubscribe) {
		r.render(name, raw)
	}, false)
}

func (r *Recorder) render(service string, raw any) {
	ev := toEvent(service, raw)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, ev); err != nil {
		fmt.Fprintf(r.out, "%s [%s] <unrenderable event: %v>\n", ev.Time.Format("15:04:05"), service, err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, buf.String())
}

func toEvent(service string, raw any) Event {
	now := time.Now()
	switch v := raw.(type) {
	case map[string]any:
		fields := make(map[string]any, len(v))
		for k, val := range v {
			fields[k] = val
		}
		msg, _ := fields["message"].(string)
		delete(fields, "message")
		return Event{Service: service, Message: msg, Fields: fields, Time: now}
	case string:
		return Event{Service: service, Message: v, Time: now}
	default:
		return Event{Service: service, Message: fmt.Sprintf("%v", v), Time: now}
	}
}
