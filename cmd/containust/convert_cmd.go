package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/containust/containust/internal/primitives"
)

// ConvertCmd best-effort translates a docker-compose file into a CTST
// composition, the way `sand new` scaffolds a template from a different
// starting shape rather than an exact round trip.
type ConvertCmd struct {
	Input  string `arg:"" help:"path to the docker-compose.yml to convert"`
	Output string `short:"o" default:"containust.ctst" help:"path to write the generated composition to"`
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image       string      `yaml:"image"`
	Command     interface{} `yaml:"command"`
	Ports       []string    `yaml:"ports"`
	Environment interface{} `yaml:"environment"`
	DependsOn   interface{} `yaml:"depends_on"`
	MemLimit    string      `yaml:"mem_limit"`
	ReadOnly    bool        `yaml:"read_only"`
}

func (c *ConvertCmd) Run(cctx *Context) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return primitives.NewIo(c.Input, "reading docker-compose file", err)
	}
	var cf composeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return primitives.NewSerialization("decoding docker-compose YAML", err)
	}

	names := make([]string, 0, len(cf.Services))
	for name := range cf.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		svc := cf.Services[name]
		fmt.Fprintf(&b, "component %s {\n", sanitizeName(name))
		if svc.Image != "" {
			fmt.Fprintf(&b, "  image = %q\n", svc.Image)
		}
		if cmd := stringList(svc.Command); len(cmd) > 0 {
			fmt.Fprintf(&b, "  command = [%s]\n", quotedJoin(cmd))
		}
		if svc.MemLimit != "" {
			fmt.Fprintf(&b, "  memory = %q\n", svc.MemLimit)
		}
		if svc.ReadOnly {
			fmt.Fprintf(&b, "  readonly = true\n")
		}
		if port, ok := firstContainerPort(svc.Ports); ok {
			fmt.Fprintf(&b, "  port = %d\n", port)
		}
		if env := stringList(svc.Environment); len(env) > 0 {
			fmt.Fprintln(&b, "  env = {")
			for _, kv := range env {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					continue
				}
				fmt.Fprintf(&b, "    %s = %q\n", k, v)
			}
			fmt.Fprintln(&b, "  }")
		}
		fmt.Fprintln(&b, "}")
		fmt.Fprintln(&b)
	}

	for _, name := range names {
		for _, dep := range stringList(cf.Services[name].DependsOn) {
			fmt.Fprintf(&b, "connect %s -> %s\n", sanitizeName(name), sanitizeName(dep))
		}
	}

	if err := os.WriteFile(c.Output, []byte(b.String()), 0o644); err != nil {
		return primitives.NewIo(c.Output, "writing converted composition", err)
	}
	fmt.Printf("wrote %s (%d service(s))\n", c.Output, len(names))
	return nil
}

// sanitizeName maps docker-compose service names onto CTST identifiers by
// replacing every '-' with '_'; other characters pass through unchanged.
func sanitizeName(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

// stringList normalizes compose's "string or list of strings" fields
// (command, environment, depends_on all allow both shapes) into a slice.
func stringList(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(t)
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprintf("%v", e))
		}
		return out
	default:
		return nil
	}
}

func quotedJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, ", ")
}

// firstContainerPort extracts the container-side port from the first
// "host:container" or bare "port" mapping compose declares; CTST's single
// `port` property only names one.
func firstContainerPort(ports []string) (uint16, bool) {
	if len(ports) == 0 {
		return 0, false
	}
	spec := ports[0]
	parts := strings.Split(spec, ":")
	raw := parts[len(parts)-1]
	raw, _, _ = strings.Cut(raw, "/")
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}
