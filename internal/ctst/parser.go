package ctst

import (
	"github.com/containust/containust/internal/primitives"
)

// Parse runs the lexer and then the recursive-descent parser over its
// output, returning the parsed Composition.
func Parse(src string) (*Composition, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseComposition()
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	if p.cur().Kind != kind {
		return Token{}, p.errExpected(what)
	}
	return p.advance(), nil
}

func (p *parser) errExpected(what string) error {
	return primitives.NewConfig("parse error at line %d, col %d: expected %s, got %s",
		p.cur().Line, p.cur().Col, what, p.cur().String())
}

func (p *parser) parseComposition() (*Composition, error) {
	comp := &Composition{}
	for p.cur().Kind != TokEOF {
		switch p.cur().Kind {
		case TokKeywordImport:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			comp.Imports = append(comp.Imports, imp)
		case TokKeywordComponent:
			c, err := p.parseComponent()
			if err != nil {
				return nil, err
			}
			comp.Components = append(comp.Components, c)
		case TokKeywordConnect:
			conn, err := p.parseConnection()
			if err != nil {
				return nil, err
			}
			comp.Connections = append(comp.Connections, conn)
		default:
			return nil, p.errExpected("'import', 'component', or 'connect'")
		}
	}
	return comp, nil
}

func (p *parser) parseImport() (Import, error) {
	p.advance() // IMPORT
	srcTok, err := p.expect(TokString, "a string literal for the import source")
	if err != nil {
		return Import{}, err
	}
	imp := Import{Source: srcTok.Text}
	if p.cur().Kind == TokKeywordAs {
		p.advance()
		aliasTok, err := p.expect(TokIdent, "an identifier after 'as'")
		if err != nil {
			return Import{}, err
		}
		imp.Alias = aliasTok.Text
	}
	return imp, nil
}

func (p *parser) parseConnection() (Connection, error) {
	p.advance() // CONNECT
	fromTok, err := p.expect(TokIdent, "a component name")
	if err != nil {
		return Connection{}, err
	}
	if _, err := p.expect(TokArrow, "'->'"); err != nil {
		return Connection{}, err
	}
	toTok, err := p.expect(TokIdent, "a component name")
	if err != nil {
		return Connection{}, err
	}
	return Connection{From: fromTok.Text, To: toTok.Text}, nil
}

func (p *parser) parseComponent() (Component, error) {
	p.advance() // COMPONENT
	nameTok, err := p.expect(TokIdent, "a component name")
	if err != nil {
		return Component{}, err
	}
	c := Component{Name: nameTok.Text}

	if p.cur().Kind == TokKeywordFrom {
		p.advance()
		parentTok, err := p.expect(TokIdent, "a template parent name after 'from'")
		if err != nil {
			return Component{}, err
		}
		c.TemplateParent = parentTok.Text
	}

	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return Component{}, err
	}
	for p.cur().Kind != TokRBrace {
		if p.cur().Kind == TokEOF {
			return Component{}, p.errExpected("'}'")
		}
		if err := p.parseProperty(&c); err != nil {
			return Component{}, err
		}
	}
	p.advance() // }
	return c, nil
}

// scalarStringKeys is the closed set of properties whose value is a single
// string literal.
var scalarStringKeys = map[string]func(*Component, string){
	"image":    func(c *Component, v string) { c.Image = v },
	"memory":   func(c *Component, v string) { c.Memory = v },
	"cpu":      func(c *Component, v string) { c.CPU = v },
	"volume":   func(c *Component, v string) { c.Volume = v },
	"workdir":  func(c *Component, v string) { c.Workdir = v },
	"user":     func(c *Component, v string) { c.User = v },
	"hostname": func(c *Component, v string) { c.Hostname = v },
	"restart":  func(c *Component, v string) { c.Restart = v },
	"network":  func(c *Component, v string) { c.Network = v },
}

var stringListKeys = map[string]func(*Component, []string){
	"volumes": func(c *Component, v []string) { c.Volumes = v },
	"command": func(c *Component, v []string) { c.Command = v },
}

func (p *parser) parseProperty(c *Component) error {
	keyTok, err := p.expect(TokIdent, "a property name")
	if err != nil {
		return err
	}
	key := keyTok.Text
	if _, err := p.expect(TokEquals, "'='"); err != nil {
		return err
	}

	switch {
	case scalarStringKeys[key] != nil:
		v, err := p.parseStringValue()
		if err != nil {
			return err
		}
		scalarStringKeys[key](c, v)
	case key == "port":
		v, err := p.parsePort()
		if err != nil {
			return err
		}
		c.Port = &v
	case key == "readonly":
		v, err := p.parseBool()
		if err != nil {
			return err
		}
		c.Readonly = v
	case stringListKeys[key] != nil:
		v, err := p.parseStringList()
		if err != nil {
			return err
		}
		stringListKeys[key](c, v)
	case key == "ports":
		v, err := p.parsePortList()
		if err != nil {
			return err
		}
		c.Ports = v
	case key == "env":
		v, err := p.parseEnvBlock()
		if err != nil {
			return err
		}
		c.Env = v
	case key == "healthcheck":
		v, err := p.parseHealthcheckBlock()
		if err != nil {
			return err
		}
		c.Healthcheck = v
	default:
		return primitives.NewConfig("parse error at line %d, col %d: unknown component property %q", keyTok.Line, keyTok.Col, key)
	}

	p.skipOptionalComma()
	return nil
}

func (p *parser) skipOptionalComma() {
	if p.cur().Kind == TokComma {
		p.advance()
	}
}

func (p *parser) parseStringValue() (string, error) {
	tok, err := p.expect(TokString, "a string literal")
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}

func (p *parser) parseBool() (bool, error) {
	switch p.cur().Kind {
	case TokKeywordTrue:
		p.advance()
		return true, nil
	case TokKeywordFalse:
		p.advance()
		return false, nil
	default:
		return false, p.errExpected("'true' or 'false'")
	}
}

func (p *parser) parsePort() (uint16, error) {
	tok, err := p.expect(TokInt, "a port number")
	if err != nil {
		return 0, err
	}
	if tok.IntVal < 0 || tok.IntVal > 65535 {
		return 0, primitives.NewConfig("parse error at line %d, col %d: port %d out of 16-bit range", tok.Line, tok.Col, tok.IntVal)
	}
	return uint16(tok.IntVal), nil
}

func (p *parser) parseStringList() ([]string, error) {
	if _, err := p.expect(TokLBracket, "'['"); err != nil {
		return nil, err
	}
	var out []string
	for p.cur().Kind != TokRBracket {
		if p.cur().Kind == TokEOF {
			return nil, p.errExpected("']'")
		}
		v, err := p.parseStringValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipOptionalComma()
	}
	p.advance() // ]
	return out, nil
}

func (p *parser) parsePortList() ([]uint16, error) {
	if _, err := p.expect(TokLBracket, "'['"); err != nil {
		return nil, err
	}
	var out []uint16
	for p.cur().Kind != TokRBracket {
		if p.cur().Kind == TokEOF {
			return nil, p.errExpected("']'")
		}
		v, err := p.parsePort()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipOptionalComma()
	}
	p.advance() // ]
	return out, nil
}

func (p *parser) parseEnvBlock() ([]EnvVar, error) {
	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var out []EnvVar
	for p.cur().Kind != TokRBrace {
		if p.cur().Kind == TokEOF {
			return nil, p.errExpected("'}'")
		}
		nameTok, err := p.expect(TokIdent, "an environment variable name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokEquals, "'='"); err != nil {
			return nil, err
		}
		valTok, err := p.expect(TokString, "a string literal")
		if err != nil {
			return nil, err
		}
		out = append(out, EnvVar{Name: nameTok.Text, Value: valTok.Text})
		p.skipOptionalComma()
	}
	p.advance() // }
	return out, nil
}

func (p *parser) parseHealthcheckBlock() (*Healthcheck, error) {
	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return nil, err
	}
	hc := &Healthcheck{}
	for p.cur().Kind != TokRBrace {
		if p.cur().Kind == TokEOF {
			return nil, p.errExpected("'}'")
		}
		keyTok, err := p.expect(TokIdent, "a healthcheck property name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokEquals, "'='"); err != nil {
			return nil, err
		}
		switch keyTok.Text {
		case "command":
			v, err := p.parseStringList()
			if err != nil {
				return nil, err
			}
			hc.Command = v
		case "interval":
			v, err := p.parseStringValue()
			if err != nil {
				return nil, err
			}
			hc.Interval = v
		case "timeout":
			v, err := p.parseStringValue()
			if err != nil {
				return nil, err
			}
			hc.Timeout = v
		case "retries":
			tok, err := p.expect(TokInt, "an integer")
			if err != nil {
				return nil, err
			}
			if tok.IntVal < 0 || tok.IntVal > 4294967295 {
				return nil, primitives.NewConfig("parse error at line %d, col %d: retries %d out of 32-bit range", tok.Line, tok.Col, tok.IntVal)
			}
			hc.Retries = uint32(tok.IntVal)
		case "start_period":
			v, err := p.parseStringValue()
			if err != nil {
				return nil, err
			}
			hc.StartPeriod = v
		default:
			return nil, primitives.NewConfig("parse error at line %d, col %d: unknown healthcheck property %q", keyTok.Line, keyTok.Col, keyTok.Text)
		}
		p.skipOptionalComma()
	}
	p.advance() // }
	return hc, nil
}
