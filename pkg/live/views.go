package live

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
)

// DefaultScriptURL is the datastar client bundle loaded by the default page.
const DefaultScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.4/bundles/datastar.js"

// ResultID is the element id of the submission result.
const ResultID = "form-result"

// PageParams are the inputs of the page view.
type PageParams struct {
	Definition  *formdef.Definition
	SessionPath string
	ScriptURL   string
	Groups      []templ.Component
}

// GroupParams are the inputs of one field group: label, control and
// feedback message.
type GroupParams struct {
	Field       formdef.FieldDef
	SessionPath string
	Value       string
	State       form.State
}

// ResultParams are the inputs of the submission result view.
type ResultParams struct {
	Submitted bool
	OK        bool
	Message   string
}

// Views renders the live form. Any nil view falls back to the default.
type Views struct {
	Page   func(PageParams) templ.Component
	Group  func(GroupParams) templ.Component
	Result func(ResultParams) templ.Component
}

// DefaultViews returns Bootstrap-flavoured views.
func DefaultViews() Views {
	return Views{Page: Page, Group: Group, Result: Result}
}

func (v Views) withDefaults() Views {
	d := DefaultViews()
	if v.Page == nil {
		v.Page = d.Page
	}
	if v.Group == nil {
		v.Group = d.Group
	}
	if v.Result == nil {
		v.Result = d.Result
	}
	return v
}

// GroupID is the element id of the group wrapping fd.
func GroupID(fd formdef.FieldDef) string {
	return "group-" + fd.Identity()
}

// Page renders the full document: the form with its rendered groups and an
// empty result.
func Page(p PageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		title := p.Definition.Title
		if title == "" {
			title = p.Definition.Name
		}
		submit := p.Definition.Submit
		if submit == "" {
			submit = "Submit"
		}
		script := p.ScriptURL
		if script == "" {
			script = DefaultScriptURL
		}

		out.print(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`, esc(title), `</title>`)
		out.print(`<script type="module" src="`, esc(script), `"></script></head><body>`)
		out.print(`<main data-signals="`, esc(initialSignals(p.Definition)), `"`)
		out.print(` data-on-load="@get('`, esc(p.SessionPath), `/stream')">`)
		out.print(`<h1>`, esc(title), `</h1>`)
		out.print(`<form id="form-`, esc(p.Definition.Name), `" novalidate`)
		out.print(` data-on-submit="@post('`, esc(p.SessionPath), `/submit')">`)
		if out.err != nil {
			return out.err
		}
		for _, g := range p.Groups {
			if err := g.Render(ctx, w); err != nil {
				return err
			}
		}
		out.print(`<button type="submit" class="btn btn-primary">`, esc(submit), `</button></form>`)
		if out.err != nil {
			return out.err
		}
		if err := Result(ResultParams{}).Render(ctx, w); err != nil {
			return err
		}
		out.print(`</main></body></html>`)
		return out.err
	})
}

// Group renders a field with its label and feedback. The group gains the
// was-validated class once the field was validated, and the control gains
// is-valid or is-invalid.
func Group(p GroupParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		fd := p.Field
		id := fd.Identity()

		class := "form-group"
		if p.State.Validated {
			class += " was-validated"
		}
		out.print(`<div id="`, esc(GroupID(fd)), `" class="`, class, `">`)
		if fd.Label != "" {
			out.print(`<label for="`, esc(id), `">`, esc(fd.Label), `</label>`)
		}

		control := "form-control"
		switch {
		case p.State.IsInvalid():
			control += " is-invalid"
		case p.State.IsValid():
			control += " is-valid"
		}
		attrs := controlAttrs(p, control)

		switch fd.Kind {
		case form.KindSelect:
			out.print(`<select`, attrs, `>`)
			for _, c := range fd.Choices {
				out.print(`<option value="`, esc(c.Value), `"`)
				if c.Value == p.Value {
					out.print(` selected`)
				}
				label := c.Label
				if label == "" {
					label = c.Value
				}
				out.print(`>`, esc(label), `</option>`)
			}
			out.print(`</select>`)
		case form.KindTextArea:
			out.print(`<textarea`, attrs, `>`, esc(p.Value), `</textarea>`)
		default:
			typ := fd.Type
			if typ == "" {
				typ = form.TypeText
			}
			out.print(`<input type="`, esc(string(typ)), `"`, attrs)
			if typ != form.TypePassword {
				out.print(` value="`, esc(p.Value), `"`)
			}
			out.print(`>`)
		}

		msg := ""
		if p.State.Error != nil {
			msg = p.State.Error.Message
		}
		out.print(`<div id="`, esc(id), `-feedback" class="invalid-feedback">`, esc(msg), `</div></div>`)
		return out.err
	})
}

// Result renders the outcome of the last submission.
func Result(p ResultParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		class := "form-result"
		if p.Submitted {
			if p.OK {
				class += " alert alert-success"
			} else {
				class += " alert alert-danger"
			}
		}
		out.print(`<div id="`, ResultID, `" class="`, class, `" role="status">`, esc(p.Message), `</div>`)
		return out.err
	})
}

func controlAttrs(p GroupParams, class string) string {
	fd := p.Field
	var b strings.Builder
	attr := func(name, value string) {
		fmt.Fprintf(&b, ` %s="%s"`, name, esc(value))
	}

	attr("id", fd.Identity())
	attr("name", fd.Name)
	attr("class", class)
	attr("data-bind", "values."+fd.Name)
	if fd.Placeholder != "" {
		attr("placeholder", fd.Placeholder)
	}
	if fd.Required {
		b.WriteString(" required")
	}
	if fd.Pattern != "" {
		attr("pattern", fd.Pattern)
	}
	if fd.MinLength > 0 {
		attr("minlength", strconv.Itoa(fd.MinLength))
	}
	if fd.MaxLength > 0 {
		attr("maxlength", strconv.Itoa(fd.MaxLength))
	}
	if fd.Min != nil {
		attr("min", formatNumber(*fd.Min))
	}
	if fd.Max != nil {
		attr("max", formatNumber(*fd.Max))
	}
	if fd.Step > 0 {
		attr("step", formatNumber(fd.Step))
	}
	if p.State.IsInvalid() {
		attr("aria-invalid", "true")
		attr("aria-describedby", fd.Identity()+"-feedback")
	}

	change := "input"
	if fd.Kind == form.KindSelect {
		change = "change"
	}
	attr("data-on-focus", eventAction(p.SessionPath, fd.Name, form.EventFocus))
	attr("data-on-blur", eventAction(p.SessionPath, fd.Name, form.EventBlur))
	attr("data-on-"+change, eventAction(p.SessionPath, fd.Name, form.EventChange))
	attr("data-on-click", eventAction(p.SessionPath, fd.Name, form.EventClick))
	return b.String()
}

func eventAction(path, field string, event form.EventType) string {
	return fmt.Sprintf("$field=%s;$event=%s;$value=el.value;@post('%s/events')",
		jsString(field), jsString(string(event)), path)
}

func initialSignals(def *formdef.Definition) string {
	values := make(map[string]string, len(def.Fields))
	for _, fd := range def.Fields {
		values[fd.Name] = fd.Value
	}
	data, _ := json.Marshal(map[string]any{
		"field":  "",
		"event":  "",
		"value":  "",
		"values": values,
	})
	return string(data)
}

func jsString(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) print(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}
