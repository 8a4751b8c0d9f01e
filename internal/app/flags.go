package app

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/andyballingall/run-clang-format/internal/config"
)

var (
	_ pflag.Value = (*colourValue)(nil)
	_ pflag.Value = (*listValue)(nil)
	_ pflag.Value = (*pathValue)(nil)
)

// colourValue implements pflag.Value for the --color flag.
type colourValue config.ColourMode

func (c *colourValue) String() string {
	return string(*c)
}

func (c *colourValue) Set(v string) error {
	m, err := config.ParseColourMode(v)
	if err != nil {
		return err
	}
	*c = colourValue(m)
	return nil
}

func (c *colourValue) Type() string {
	return "auto|always|never"
}

// listValue implements pflag.Value for a comma separated list.
type listValue []string

func (l *listValue) String() string {
	return strings.Join(*l, ",")
}

func (l *listValue) Set(v string) error {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return errors.New("list must not contain empty items")
		}
		out = append(out, p)
	}
	*l = out
	return nil
}

func (l *listValue) Type() string {
	return "<list>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}
