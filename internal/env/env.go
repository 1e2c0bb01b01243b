package env

import (
	"encoding"
	"fmt"
	"strings"
)

// Environment is the deployment the server runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

var (
	_ encoding.TextUnmarshaler = (*Environment)(nil)
	_ fmt.Stringer             = Environment("")
)

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsProduction() bool  { return e == Production }

func (e Environment) String() string { return string(e) }

// UnmarshalText accepts the short forms "dev" and "prod" in any case.
func (e *Environment) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "dev", string(Development):
		*e = Development
	case "prod", string(Production):
		*e = Production
	default:
		return fmt.Errorf("unknown environment %q", text)
	}
	return nil
}
