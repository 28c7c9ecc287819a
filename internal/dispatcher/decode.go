package dispatcher

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keymotion/internal/dispatcher/request"
	"github.com/dshills/keymotion/internal/motion"
)

// rawRequest is the wire shape of a request, shared by the JSON and YAML
// decoders.
type rawRequest struct {
	Command  string       `yaml:"command"`
	Movement *rawMovement `yaml:"movement"`
	Commands []rawCall    `yaml:"commands"`
}

type rawMovement struct {
	Kind       string `yaml:"kind"`
	Type       string `yaml:"type"` // legacy name of kind
	Modifier   string `yaml:"modifier"`
	Letter     string `yaml:"letter"`
	InsideOnly *bool  `yaml:"insideOnly"`
	Inside     *bool  `yaml:"inside"`
	Count      *int   `yaml:"count"`
}

type rawCall struct {
	Command string         `yaml:"command"`
	Args    map[string]any `yaml:"args"`
}

// ParseRequest decodes a single JSON request object.
func ParseRequest(data []byte) (request.Request, error) {
	if !gjson.ValidBytes(data) {
		return request.Request{}, fmt.Errorf("%w: malformed JSON", ErrInvalidRequest)
	}
	return requestFromJSON(gjson.ParseBytes(data))
}

func requestFromJSON(v gjson.Result) (request.Request, error) {
	raw, err := rawRequestFromJSON(v)
	if err != nil {
		return request.Request{}, err
	}
	return raw.request()
}

// ParseScript decodes a JSON script: an array of request objects, or a
// single object.
func ParseScript(data []byte) ([]request.Request, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidRequest)
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		req, err := ParseRequest(data)
		if err != nil {
			return nil, err
		}
		return []request.Request{req}, nil
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: script must be an array or an object", ErrInvalidRequest)
	}

	var (
		reqs []request.Request
		err  error
	)
	root.ForEach(func(_, v gjson.Result) bool {
		var req request.Request
		req, err = requestFromJSON(v)
		if err != nil {
			err = fmt.Errorf("request %d: %w", len(reqs), err)
			return false
		}
		reqs = append(reqs, req)
		return true
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// ParseYAMLScript decodes a YAML script. Each document is a request
// mapping or a sequence of them.
func ParseYAMLScript(data []byte) ([]request.Request, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var reqs []request.Request
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}

		node := &doc
		if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
			node = node.Content[0]
		}

		var raws []rawRequest
		switch node.Kind {
		case yaml.SequenceNode:
			if err := node.Decode(&raws); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
			}
		case yaml.MappingNode:
			var raw rawRequest
			if err := node.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
			}
			raws = append(raws, raw)
		default:
			return nil, fmt.Errorf("%w: line %d: expected a request or a list of requests", ErrInvalidRequest, node.Line)
		}

		for _, raw := range raws {
			req, err := raw.request()
			if err != nil {
				return nil, fmt.Errorf("request %d: %w", len(reqs), err)
			}
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

// ParseScriptFile decodes a script, choosing YAML or JSON by file extension.
func ParseScriptFile(name string, data []byte) ([]request.Request, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAMLScript(data)
	default:
		return ParseScript(data)
	}
}

func rawRequestFromJSON(v gjson.Result) (rawRequest, error) {
	var raw rawRequest
	if !v.IsObject() {
		return raw, fmt.Errorf("%w: request must be an object", ErrInvalidRequest)
	}

	cmd := v.Get("command")
	if cmd.Exists() && cmd.Type != gjson.String {
		return raw, fmt.Errorf("%w: command must be a string", ErrInvalidRequest)
	}
	raw.Command = cmd.String()

	if m := v.Get("movement"); m.Exists() && m.Type != gjson.Null {
		mv, err := rawMovementFromJSON(m)
		if err != nil {
			return raw, err
		}
		raw.Movement = &mv
	}

	if list := v.Get("commands"); list.Exists() && list.Type != gjson.Null {
		if !list.IsArray() {
			return raw, fmt.Errorf("%w: commands must be an array", ErrInvalidRequest)
		}
		var err error
		list.ForEach(func(_, c gjson.Result) bool {
			var call rawCall
			call, err = rawCallFromJSON(c)
			if err != nil {
				return false
			}
			raw.Commands = append(raw.Commands, call)
			return true
		})
		if err != nil {
			return raw, err
		}
	}

	return raw, nil
}

func rawMovementFromJSON(m gjson.Result) (rawMovement, error) {
	var mv rawMovement
	if !m.IsObject() {
		return mv, fmt.Errorf("%w: movement must be an object", ErrInvalidRequest)
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{"kind", &mv.Kind},
		{"type", &mv.Type},
		{"modifier", &mv.Modifier},
		{"letter", &mv.Letter},
	} {
		if r := m.Get(f.key); r.Exists() {
			if r.Type != gjson.String {
				return mv, fmt.Errorf("%w: movement %s must be a string", ErrInvalidRequest, f.key)
			}
			*f.dst = r.String()
		}
	}

	for _, f := range []struct {
		key string
		dst **bool
	}{
		{"insideOnly", &mv.InsideOnly},
		{"inside", &mv.Inside},
	} {
		if r := m.Get(f.key); r.Exists() {
			if !r.IsBool() {
				return mv, fmt.Errorf("%w: movement %s must be a boolean", ErrInvalidRequest, f.key)
			}
			b := r.Bool()
			*f.dst = &b
		}
	}

	if r := m.Get("count"); r.Exists() {
		if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
			return mv, fmt.Errorf("%w: movement count must be an integer", ErrInvalidRequest)
		}
		n := int(r.Int())
		mv.Count = &n
	}

	return mv, nil
}

func rawCallFromJSON(c gjson.Result) (rawCall, error) {
	var call rawCall
	if !c.IsObject() {
		return call, fmt.Errorf("%w: commands entry must be an object", ErrInvalidRequest)
	}

	name := c.Get("command")
	if name.Type != gjson.String {
		return call, fmt.Errorf("%w: commands entry needs a command name", ErrInvalidRequest)
	}
	call.Command = name.String()

	if args := c.Get("args"); args.Exists() && args.Type != gjson.Null {
		if !args.IsObject() {
			return call, fmt.Errorf("%w: args of %s must be an object", ErrInvalidRequest, call.Command)
		}
		call.Args, _ = args.Value().(map[string]any)
	}
	return call, nil
}

// request validates the raw shape and converts it.
func (r rawRequest) request() (request.Request, error) {
	if r.Command == "" {
		return request.Request{}, fmt.Errorf("%w: command is required", ErrInvalidRequest)
	}
	req := request.Request{Command: r.Command}

	if r.Movement != nil {
		spec, err := r.Movement.spec()
		if err != nil {
			return request.Request{}, err
		}
		req.Movement = &spec
	}

	for _, c := range r.Commands {
		if c.Command == "" {
			return request.Request{}, fmt.Errorf("%w: commands entry needs a command name", ErrInvalidRequest)
		}
		args := c.Args
		if args == nil {
			args = map[string]any{}
		}
		req.Commands = append(req.Commands, request.CommandCall{Command: c.Command, Args: args})
	}

	return req, nil
}

// spec converts a wire movement, accepting the legacy type/modifier form.
func (m rawMovement) spec() (motion.Spec, error) {
	name := m.Kind
	if name == "" {
		name = m.Type
	}
	if name == "" {
		return motion.Spec{}, fmt.Errorf("%w: movement kind is required", ErrInvalidRequest)
	}

	var spec motion.Spec
	kind, err := motion.ParseKind(name, m.Modifier)
	var unknown *motion.Error
	switch {
	case errors.As(err, &unknown):
		// Reported by the dispatcher as a failure of this request only.
		spec = motion.Unknown(unknown.Kind)
	case err != nil:
		return motion.Spec{}, err
	default:
		spec.Kind = kind
	}
	spec.Letter = m.Letter

	switch {
	case m.InsideOnly != nil:
		spec.InsideOnly = *m.InsideOnly
	case m.Inside != nil:
		spec.InsideOnly = *m.Inside
	}
	if m.Count != nil {
		if *m.Count < 1 {
			return motion.Spec{}, fmt.Errorf("%w: movement count must be at least 1, got %d", ErrInvalidRequest, *m.Count)
		}
		spec.Count = *m.Count
	}

	if err := spec.Validate(); err != nil && !errors.Is(err, motion.ErrUnknownMotion) {
		return motion.Spec{}, err
	}
	return spec, nil
}
