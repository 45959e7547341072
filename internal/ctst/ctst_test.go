package ctst

import (
	"strings"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	src := `import "./base.ctst" as base
// a comment
component api from base {
  image = "ghcr.io/org/api:latest"
  port = 8080
  ports = [8080, 8443]
  readonly = true
  volumes = ["a", "b"]
  env = { FOO = "bar", BAZ = "qux" }
  healthcheck = { command = ["curl", "-f", "http://localhost"], interval = "5s", retries = 3 }
}
connect api -> db
`
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[len(toks)-1].Kind != TokEOF {
		t.Fatal("expected final token to be EOF")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`component x { image = "unterminated`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	if !strings.Contains(err.Error(), "unterminated") {
		t.Errorf("error should mention 'unterminated', got: %v", err)
	}
}

func TestTokenizeUnrecognizedChar(t *testing.T) {
	_, err := Tokenize(`component x { image = @foo }`)
	if err == nil {
		t.Fatal("expected error for unrecognized character")
	}
}

func TestParseRoundTripProperties(t *testing.T) {
	src := `component api {
  image = "img:latest"
  port = 8080
  ports = [1, 2, 3]
  memory = "128MiB"
  cpu = "0.5"
  workdir = "/app"
  user = "nobody"
  hostname = "api-host"
  restart = "always"
  network = "bridge"
  readonly = true
  volume = "vol1"
  volumes = ["vol1", "vol2"]
  command = ["/bin/app", "--flag"]
  env = { A = "1", B = "2" }
  healthcheck = { command = ["true"], interval = "1s", timeout = "2s", retries = 5, start_period = "3s" }
}`
	comp, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(comp.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(comp.Components))
	}
	c := comp.Components[0]
	if c.Image != "img:latest" {
		t.Errorf("Image = %q", c.Image)
	}
	if c.Port == nil || *c.Port != 8080 {
		t.Errorf("Port = %v", c.Port)
	}
	if len(c.Ports) != 3 || c.Ports[2] != 3 {
		t.Errorf("Ports = %v", c.Ports)
	}
	if c.Memory != "128MiB" || c.CPU != "0.5" || c.Workdir != "/app" || c.User != "nobody" {
		t.Errorf("scalar string properties mismatch: %+v", c)
	}
	if c.Hostname != "api-host" || c.Restart != "always" || c.Network != "bridge" {
		t.Errorf("scalar string properties mismatch: %+v", c)
	}
	if !c.Readonly {
		t.Error("Readonly should be true")
	}
	if c.Volume != "vol1" || len(c.Volumes) != 2 {
		t.Errorf("volume properties mismatch: %+v", c)
	}
	if len(c.Command) != 2 || c.Command[1] != "--flag" {
		t.Errorf("Command = %v", c.Command)
	}
	if len(c.Env) != 2 || c.Env[0].Name != "A" || c.Env[0].Value != "1" {
		t.Errorf("Env = %v", c.Env)
	}
	if c.Healthcheck == nil || c.Healthcheck.Retries != 5 || c.Healthcheck.Timeout != "2s" {
		t.Errorf("Healthcheck = %+v", c.Healthcheck)
	}
}

func TestParseUnknownProperty(t *testing.T) {
	_, err := Parse(`component x { image = "i" bogus = "y" }`)
	if err == nil {
		t.Fatal("expected error for unknown property")
	}
}

func TestParseOversizedPort(t *testing.T) {
	_, err := Parse(`component x { image = "i" port = 99999 }`)
	if err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestParseCommasOptional(t *testing.T) {
	src := `component x {
  image = "i"
  volumes = ["a" "b" "c"]
  env = { A = "1" B = "2" }
}`
	comp, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error with optional commas: %v", err)
	}
	if len(comp.Components[0].Volumes) != 3 {
		t.Errorf("Volumes = %v", comp.Components[0].Volumes)
	}
	if len(comp.Components[0].Env) != 2 {
		t.Errorf("Env = %v", comp.Components[0].Env)
	}
}

func TestValidatorDuplicateNames(t *testing.T) {
	comp := &Composition{Components: []Component{
		{Name: "app", Image: "i1"},
		{Name: "app", Image: "i2"},
	}}
	err := Validate(comp)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestValidatorDanglingConnection(t *testing.T) {
	comp := &Composition{
		Components:  []Component{{Name: "app", Image: "i1"}},
		Connections: []Connection{{From: "app", To: "missing"}},
	}
	if err := Validate(comp); err == nil {
		t.Fatal("expected error for dangling connection endpoint")
	}
}

func TestValidatorMissingImageWithoutTemplate(t *testing.T) {
	comp := &Composition{Components: []Component{{Name: "app"}}}
	if err := Validate(comp); err == nil {
		t.Fatal("expected error for component without image or template parent")
	}
}

func TestValidatorTemplateParentWithoutImageOK(t *testing.T) {
	comp := &Composition{Components: []Component{
		{Name: "base", Image: "i1"},
		{Name: "app", TemplateParent: "base"},
	}}
	if err := Validate(comp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// S4: parse_ctst rejects two components named "app" with an error
// mentioning "duplicate".
func TestScenarioS4ValidatorRejectsDuplicates(t *testing.T) {
	src := `component app { image = "i1" }
component app { image = "i2" }`
	_, err := ParseAndValidate(src)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected 'duplicate' error, got %v", err)
	}
}
