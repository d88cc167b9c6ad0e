package out

import (
	"os"
	"strings"

	assistantout "blockgarden/internal/modules/assistant/port/out"
)

// EnvCredentials checks a single environment variable.
type EnvCredentials struct {
	name string
}

func NewEnvCredentials(name string) assistantout.Credentials {
	return EnvCredentials{name: name}
}

func (c EnvCredentials) Present() bool {
	return c.name != "" && strings.TrimSpace(os.Getenv(c.name)) != ""
}
